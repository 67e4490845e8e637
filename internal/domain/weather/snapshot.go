// Package weather resolves race-day conditions and models their
// performance impact. Resolution falls through forecast, historical
// estimate, and a neutral default; it never fails outright.
package weather

// Source tags where a snapshot's readings came from. Snapshots from
// different sources are never mixed.
type Source string

const (
	SourceForecast   Source = "forecast"
	SourceHistorical Source = "historical_estimate"
	SourceDefault    Source = "unavailable"
)

// Snapshot is a single set of expected race-day readings.
type Snapshot struct {
	TemperatureC float64 `json:"temperatureC"`
	HumidityPct  float64 `json:"humidityPct"`
	WindSpeedKph float64 `json:"windSpeedKph"`
	Source       Source  `json:"source"`
}

// Neutral is the fixed fallback snapshot used when every resolution tier
// fails: 20°C, 50% humidity, calm air.
func Neutral() Snapshot {
	return Snapshot{TemperatureC: 20, HumidityPct: 50, WindSpeedKph: 0, Source: SourceDefault}
}
