// Package athlete holds the athlete capability profile consumed by the
// pacing, nutrition and statistics engines. Profiles are read-only to the
// planner; metric-sync collaborators own the numbers.
package athlete

import (
	"fmt"
	"strings"
)

// ExperienceTier buckets athletes by racing experience.
type ExperienceTier string

const (
	TierBeginner     ExperienceTier = "beginner"
	TierIntermediate ExperienceTier = "intermediate"
	TierAdvanced     ExperienceTier = "advanced"
)

// Profile carries the capability metrics a plan is computed from.
// Zero-valued metrics are treated as missing and substituted with
// population averages by Normalize.
type Profile struct {
	FTPWatts             float64        `json:"ftpWatts"`
	RunThresholdSecPerKm float64        `json:"runThresholdSecPerKm"`
	SwimCSSSecPer100m    float64        `json:"swimCssSecPer100m"`
	WeightKG             float64        `json:"weightKg"`
	Experience           ExperienceTier `json:"experience"`
	Gender               string         `json:"gender,omitempty"` // "M" | "F", optional
	Age                  int            `json:"age,omitempty"`
}

// Population-average defaults used when an athlete metric is missing.
// Derived from age-group medians in the reference result set.
const (
	defaultFTPWatts       = 200
	defaultRunThreshold   = 330 // s/km, ~5:30 min/km
	defaultSwimCSS        = 115 // s/100m
	defaultWeightKG       = 75
)

// Normalize returns a copy with missing metrics replaced by population
// defaults. Computation faults from absent data are handled here so the
// pipeline never hard-fails on an incomplete profile.
func (p Profile) Normalize() Profile {
	out := p
	if out.FTPWatts <= 0 {
		out.FTPWatts = defaultFTPWatts
	}
	if out.RunThresholdSecPerKm <= 0 {
		out.RunThresholdSecPerKm = defaultRunThreshold
	}
	if out.SwimCSSSecPer100m <= 0 {
		out.SwimCSSSecPer100m = defaultSwimCSS
	}
	if out.WeightKG <= 0 {
		out.WeightKG = defaultWeightKG
	}
	switch out.Experience {
	case TierBeginner, TierIntermediate, TierAdvanced:
	default:
		out.Experience = TierIntermediate
	}
	// Gender is compared case-sensitively by CohortKey; accept any casing
	// at the edge and store the canonical form.
	out.Gender = strings.ToUpper(strings.TrimSpace(out.Gender))
	return out
}

// AgeBand returns the five-year age-group band used for cohort lookups,
// e.g. "25-29". Ages below 18 fold into "18-24"; 70 and above into "70+".
func (p Profile) AgeBand() string {
	switch {
	case p.Age <= 0:
		return ""
	case p.Age < 25:
		return "18-24"
	case p.Age >= 70:
		return "70+"
	default:
		lo := (p.Age / 5) * 5
		return fmt.Sprintf("%d-%d", lo, lo+4)
	}
}

// CohortKey returns the gender x age-band key, e.g. "M_35-39", or "" when
// either component is unknown.
func (p Profile) CohortKey() string {
	band := p.AgeBand()
	if band == "" || (p.Gender != "M" && p.Gender != "F") {
		return ""
	}
	return p.Gender + "_" + band
}
