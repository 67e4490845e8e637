// Package stats places a predicted finish time inside a reference
// population: percentile, confidence interval, recommended splits and
// optional course or year adjustments.
package stats

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/cohorts.yaml
var rawDataset []byte

// Fit holds the log-normal parameters for a cohort's finish times,
// with location fixed at zero. shape is the log-space sigma, scale the
// distribution median in seconds.
type Fit struct {
	Shape float64 `yaml:"shape"`
	Scale float64 `yaml:"scale"`
}

// CohortStats is the descriptive summary of a cohort's finish times.
type CohortStats struct {
	Mean   float64 `yaml:"mean"`
	Median float64 `yaml:"median"`
	Std    float64 `yaml:"std"`
	P05    float64 `yaml:"p05"`
	P10    float64 `yaml:"p10"`
	P25    float64 `yaml:"p25"`
	P50    float64 `yaml:"p50"`
	P75    float64 `yaml:"p75"`
	P90    float64 `yaml:"p90"`
	P95    float64 `yaml:"p95"`
}

// Cohort couples the fitted distribution with its sample summary.
type Cohort struct {
	Count int         `yaml:"count"`
	Fit   Fit         `yaml:"fit"`
	Stats CohortStats `yaml:"stats"`
}

// SplitBand is the observed swim/bike/run time share for athletes whose
// finish lands in the [Lo, Hi) percentile band.
type SplitBand struct {
	Name    string  `yaml:"name"`
	Lo      float64 `yaml:"lo"`
	Hi      float64 `yaml:"hi"`
	SwimPct float64 `yaml:"swim_pct"`
	BikePct float64 `yaml:"bike_pct"`
	RunPct  float64 `yaml:"run_pct"`
}

// CourseFactor normalizes a venue's median finish time against the
// global median. Values above one mark a slower than average course.
type CourseFactor struct {
	Factor float64 `yaml:"factor"`
	Count  int     `yaml:"count"`
}

type dataset struct {
	Metadata struct {
		ReferenceYear int `yaml:"reference_year"`
	} `yaml:"metadata"`
	Cohorts       map[string]Cohort       `yaml:"cohorts"`
	SplitBands    []SplitBand             `yaml:"split_bands"`
	CourseFactors map[string]CourseFactor `yaml:"course_factors"`
	Trend         struct {
		YearCoeffSecPerYear float64 `yaml:"year_coeff_sec_per_year"`
	} `yaml:"trend"`
}

var (
	datasetOnce sync.Once
	datasetVal  dataset
	datasetErr  error
)

// loadDataset decodes the embedded reference dataset exactly once.
func loadDataset() (dataset, error) {
	datasetOnce.Do(func() {
		datasetErr = yaml.Unmarshal(rawDataset, &datasetVal)
	})
	return datasetVal, datasetErr
}
