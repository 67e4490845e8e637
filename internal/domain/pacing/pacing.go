// Package pacing computes target swim pace, bike power and run pace from
// athlete capability, course difficulty, accumulated fatigue and weather.
package pacing

import (
	"math"

	"github.com/racedayai/planner/internal/domain/athlete"
	"github.com/racedayai/planner/internal/domain/course"
)

// SwimPlan is the swim segment target. The swim comes first, so no
// fatigue term applies.
type SwimPlan struct {
	TargetPaceSecPer100m float64 `json:"targetPaceSecPer100m"`
	IntensityFactor      float64 `json:"intensityFactor"`
	EstimatedMinutes     float64 `json:"estimatedMinutes"`
}

// BikePlan is the bike segment target.
type BikePlan struct {
	TargetPowerW     float64 `json:"targetPowerW"`
	IntensityFactor  float64 `json:"intensityFactor"`
	SpeedKph         float64 `json:"speedKph"`
	EstimatedMinutes float64 `json:"estimatedMinutes"`
	TrainingStress   float64 `json:"trainingStress"`
}

// RunPlan is the run segment target, paced as a negative split: the first
// kilometers run slower than target, the back half compensates.
type RunPlan struct {
	TargetPaceSecPerKm float64 `json:"targetPaceSecPerKm"`
	EarlyPaceSecPerKm  float64 `json:"earlyPaceSecPerKm"`
	LatePaceSecPerKm   float64 `json:"latePaceSecPerKm"`
	FatigueOffsetSec   float64 `json:"fatigueOffsetSecPerKm"`
	IntensityFactor    float64 `json:"intensityFactor"`
	EstimatedMinutes   float64 `json:"estimatedMinutes"`
}

// Result bundles the three segment plans.
type Result struct {
	Swim SwimPlan `json:"swim"`
	Bike BikePlan `json:"bike"`
	Run  RunPlan  `json:"run"`
}

// Base intensity factors per distance category. Shorter races are ridden
// harder relative to threshold.
var baseBikeIF = map[course.Category]float64{
	course.CategorySprint:  0.88,
	course.CategoryOlympic: 0.82,
	course.CategoryHalf:    0.78,
	course.CategoryFull:    0.70,
}

// Run race-pace multipliers on threshold pace per category, before the
// bike-fatigue offset.
var runPaceFactor = map[course.Category]float64{
	course.CategorySprint:  0.98,
	course.CategoryOlympic: 1.02,
	course.CategoryHalf:    1.05,
	course.CategoryFull:    1.15,
}

const (
	// Intended intensity never exceeds this ceiling, however steep the
	// course.
	bikeIFCeiling = 0.85
	// Gradient ratio to IF boost conversion: an average gradient of 1%
	// adds 0.04 of intensity, capped at the same amount.
	gradientIFGain    = 4.0
	gradientIFMaxGain = 0.04
	// Climbing slows the speed estimate by this factor per unit of
	// elevation-per-distance ratio.
	climbSpeedPenalty = 6.0
	// Flat-course speed at the reference power-to-weight of 2.6 W/kg.
	referenceSpeedKph = 32.2
	referenceWPerKG   = 2.6
	// Run fatigue: seconds per kilometer added per point of bike TSS.
	fadeSecPerKmPerTSS = 0.11
	// Negative split: seconds per kilometer held back over the opening
	// kilometers.
	negativeSplitOpenKm  = 3.0
	negativeSplitHoldSec = 8.0
)

// Plan computes all three segment targets. The athlete profile must
// already be normalized; weatherImpactPct is the clamped combined impact
// and stretches bike and run durations.
func Plan(a athlete.Profile, c course.Profile, weatherImpactPct float64) Result {
	swim := planSwim(a, c)
	bike := planBike(a, c, weatherImpactPct)
	run := planRun(a, c, bike.TrainingStress, weatherImpactPct)
	return Result{Swim: swim, Bike: bike, Run: run}
}

func planSwim(a athlete.Profile, c course.Profile) SwimPlan {
	pace := a.SwimCSSSecPer100m
	return SwimPlan{
		TargetPaceSecPer100m: pace,
		IntensityFactor:      1.0,
		EstimatedMinutes:     pace * (c.SwimM / 100) / 60,
	}
}

func planBike(a athlete.Profile, c course.Profile, weatherImpactPct float64) BikePlan {
	baseIF, ok := baseBikeIF[c.Category]
	if !ok {
		baseIF = baseBikeIF[course.CategoryHalf]
	}

	gradientRatio := 0.0
	if c.BikeM > 0 {
		gradientRatio = c.ElevationGainM / c.BikeM
	}
	intensity := baseIF + math.Min(gradientIFMaxGain, gradientRatio*gradientIFGain)
	if intensity > bikeIFCeiling {
		intensity = bikeIFCeiling
	}

	power := a.FTPWatts * intensity

	// Flat speed scales with the cube root of power relative to the
	// athlete's reference output; climbing slows it linearly in the
	// elevation-per-distance ratio.
	refPower := referenceWPerKG * a.WeightKG
	speed := referenceSpeedKph * math.Cbrt(power/refPower)
	speed *= 1 - math.Min(0.25, gradientRatio*climbSpeedPenalty)

	minutes := c.BikeM / 1000 / speed * 60
	minutes *= 1 + weatherImpactPct/100

	hours := minutes / 60
	tss := hours * intensity * intensity * 100

	return BikePlan{
		TargetPowerW:     math.Round(power),
		IntensityFactor:  intensity,
		SpeedKph:         speed,
		EstimatedMinutes: minutes,
		TrainingStress:   tss,
	}
}

func planRun(a athlete.Profile, c course.Profile, bikeTSS, weatherImpactPct float64) RunPlan {
	factor, ok := runPaceFactor[c.Category]
	if !ok {
		factor = runPaceFactor[course.CategoryHalf]
	}

	fatigueOffset := bikeTSS * fadeSecPerKmPerTSS
	pace := a.RunThresholdSecPerKm*factor + fatigueOffset
	pace *= 1 + weatherImpactPct/100

	runKm := c.RunM / 1000
	early := pace + negativeSplitHoldSec
	late := pace
	if runKm > negativeSplitOpenKm {
		// The back half compensates for the conservative opening so the
		// average still hits target pace.
		late = pace - negativeSplitHoldSec*negativeSplitOpenKm/(runKm-negativeSplitOpenKm)
	}

	return RunPlan{
		TargetPaceSecPerKm: pace,
		EarlyPaceSecPerKm:  early,
		LatePaceSecPerKm:   late,
		FatigueOffsetSec:   fatigueOffset,
		IntensityFactor:    a.RunThresholdSecPerKm / pace,
		EstimatedMinutes:   pace * runKm / 60,
	}
}

// TotalRaceMinutes sums segment estimates plus transition allowances.
func TotalRaceMinutes(r Result, t1Min, t2Min float64) float64 {
	return r.Swim.EstimatedMinutes + t1Min + r.Bike.EstimatedMinutes + t2Min + r.Run.EstimatedMinutes
}
