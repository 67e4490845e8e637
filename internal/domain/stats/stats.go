package stats

import "math"

// Request carries everything the context builder needs. RaceID and
// RaceYear are optional; when they match historical course data the
// placement is adjusted for venue difficulty and yearly drift.
type Request struct {
	PredictedTotalSec float64
	CohortKey         string
	RaceID            string
	RaceYear          int
}

// ConfidenceInterval brackets the prediction using the cohort's
// relative spread.
type ConfidenceInterval struct {
	P10Sec float64 `json:"p10Sec"`
	P50Sec float64 `json:"p50Sec"`
	P90Sec float64 `json:"p90Sec"`
}

// SplitRecommendation is the swim/bike/run time share observed for
// cohort athletes finishing near the predicted percentile.
type SplitRecommendation struct {
	Band    string  `json:"band"`
	SwimPct float64 `json:"swimPct"`
	BikePct float64 `json:"bikePct"`
	RunPct  float64 `json:"runPct"`
}

// Context is the statistical placement of one predicted finish.
// Available gates every other field: a missing cohort yields
// Available=false and nothing fabricated.
type Context struct {
	Available          bool                `json:"available"`
	CohortKey          string              `json:"cohortKey,omitempty"`
	CohortSize         int                 `json:"cohortSize,omitempty"`
	CohortMedianSec    float64             `json:"cohortMedianSec,omitempty"`
	Percentile         float64             `json:"percentile,omitempty"`
	CI                 ConfidenceInterval  `json:"confidenceInterval,omitempty"`
	Splits             SplitRecommendation `json:"splits,omitempty"`
	CourseFactor       float64             `json:"courseFactor,omitempty"`
	CourseDifficulty   string              `json:"courseDifficulty,omitempty"`
	TrendAdjustmentSec float64             `json:"trendAdjustmentSec,omitempty"`
}

// difficultyTier buckets a course factor the way the historical course
// clustering does.
func difficultyTier(factor float64) string {
	switch {
	case factor <= 0:
		return ""
	case factor < 0.97:
		return "easy"
	case factor <= 1.03:
		return "moderate"
	case factor <= 1.07:
		return "hard"
	default:
		return "very_hard"
	}
}

// Build places the predicted time within its cohort distribution.
func Build(req Request) Context {
	ds, err := loadDataset()
	if err != nil {
		return Context{}
	}
	cohort, ok := ds.Cohorts[req.CohortKey]
	if !ok || req.PredictedTotalSec <= 0 {
		return Context{}
	}

	// Venue difficulty scales the time back to a neutral course before
	// the distribution lookup.
	comparable := req.PredictedTotalSec
	courseFactor := 0.0
	if cf, found := ds.CourseFactors[req.RaceID]; found && cf.Factor > 0 {
		courseFactor = cf.Factor
		comparable = req.PredictedTotalSec / cf.Factor
	}

	pct := lognormCDF(comparable, cohort.Fit) * 100

	ctx := Context{
		Available:        true,
		CohortKey:        req.CohortKey,
		CohortSize:       cohort.Count,
		CohortMedianSec:  cohort.Stats.Median,
		Percentile:       round1(pct),
		CI:               interval(req.PredictedTotalSec, cohort.Stats),
		Splits:           splitsFor(ds.SplitBands, pct),
		CourseFactor:     courseFactor,
		CourseDifficulty: difficultyTier(courseFactor),
	}

	if req.RaceYear > 0 && ds.Metadata.ReferenceYear > 0 {
		ctx.TrendAdjustmentSec = ds.Trend.YearCoeffSecPerYear * float64(req.RaceYear-ds.Metadata.ReferenceYear)
	}
	return ctx
}

// lognormCDF evaluates the log-normal CDF with location zero. The
// result is the fraction of the cohort expected to finish faster.
func lognormCDF(x float64, fit Fit) float64 {
	if x <= 0 || fit.Shape <= 0 || fit.Scale <= 0 {
		return 0
	}
	z := math.Log(x/fit.Scale) / (fit.Shape * math.Sqrt2)
	return 0.5 * math.Erfc(-z)
}

// interval brackets the prediction by scaling it with the cohort's
// p10/p50 and p90/p50 ratios. Ordering of the cohort percentiles makes
// p10 <= p50 <= p90 hold by construction.
func interval(predicted float64, s CohortStats) ConfidenceInterval {
	if s.P50 <= 0 {
		return ConfidenceInterval{P10Sec: predicted, P50Sec: predicted, P90Sec: predicted}
	}
	return ConfidenceInterval{
		P10Sec: math.Round(predicted * s.P10 / s.P50),
		P50Sec: math.Round(predicted),
		P90Sec: math.Round(predicted * s.P90 / s.P50),
	}
}

// splitsFor picks the percentile band covering pct and renormalizes the
// shares to exactly 100.
func splitsFor(bands []SplitBand, pct float64) SplitRecommendation {
	if len(bands) == 0 {
		return SplitRecommendation{}
	}
	chosen := bands[len(bands)-1]
	for _, b := range bands {
		if pct >= b.Lo && pct < b.Hi {
			chosen = b
			break
		}
	}
	total := chosen.SwimPct + chosen.BikePct + chosen.RunPct
	if total <= 0 {
		return SplitRecommendation{Band: chosen.Name}
	}
	return SplitRecommendation{
		Band:    chosen.Name,
		SwimPct: round1(chosen.SwimPct / total * 100),
		BikePct: round1(chosen.BikePct / total * 100),
		RunPct:  round1(chosen.RunPct / total * 100),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
