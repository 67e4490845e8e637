package weather

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/impact.yaml
var rawImpactTable []byte

// Clamp band for the combined impact percentage. The three condition
// impacts are additive; clamping keeps extremes from compounding to
// implausible totals.
const (
	impactFloorPct   = -5.0
	impactCeilingPct = 10.0
)

// impactBin maps condition values up to Max (inclusive of the open last
// bin, which has no Max) to a signed impact percentage.
type impactBin struct {
	Max       *float64 `yaml:"max"`
	ImpactPct float64  `yaml:"impact_pct"`
}

type impactTable struct {
	Temperature []impactBin `yaml:"temperature"`
	Wind        []impactBin `yaml:"wind"`
	Humidity    []impactBin `yaml:"humidity"`
}

var (
	impactOnce   sync.Once
	loadedImpact impactTable
)

// table returns the decoded impact bins, loading them exactly once.
// Concurrent first access from multiple plan generations is safe.
func table() impactTable {
	impactOnce.Do(func() {
		// The table is embedded at build time; a decode failure is a
		// programming error, not a runtime condition.
		if err := yaml.Unmarshal(rawImpactTable, &loadedImpact); err != nil {
			panic("weather: embedded impact table is invalid: " + err.Error())
		}
	})
	return loadedImpact
}

func lookupBin(bins []impactBin, value float64) float64 {
	for _, b := range bins {
		if b.Max == nil || value < *b.Max {
			return b.ImpactPct
		}
	}
	return 0
}

// CombinedImpactPct returns the additive temperature+wind+humidity impact
// percentage for the snapshot, clamped to the configured band. Positive
// values slow the athlete down.
func CombinedImpactPct(s Snapshot) float64 {
	t := table()
	sum := lookupBin(t.Temperature, s.TemperatureC) +
		lookupBin(t.Wind, s.WindSpeedKph) +
		lookupBin(t.Humidity, s.HumidityPct)

	if sum < impactFloorPct {
		return impactFloorPct
	}
	if sum > impactCeilingPct {
		return impactCeilingPct
	}
	return sum
}
