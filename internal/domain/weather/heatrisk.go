package weather

// Risk is the qualitative heat-stress label. It is derived independently
// of the quantitative impact percentage and must not be conflated with it.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskModerate Risk = "moderate"
	RiskHigh     Risk = "high"
	RiskExtreme  Risk = "extreme"
)

// HeatRisk classifies heat stress from temperature and humidity via a
// small weighted point score. Temperature dominates; humidity compounds.
func HeatRisk(s Snapshot) Risk {
	score := 0
	switch {
	case s.TemperatureC >= 35:
		score += 4
	case s.TemperatureC >= 30:
		score += 3
	case s.TemperatureC >= 27:
		score += 2
	case s.TemperatureC >= 24:
		score += 1
	}
	switch {
	case s.HumidityPct >= 80:
		score += 2
	case s.HumidityPct >= 65:
		score += 1
	}

	switch {
	case score >= 6:
		return RiskExtreme
	case score >= 4:
		return RiskHigh
	case score >= 2:
		return RiskModerate
	default:
		return RiskLow
	}
}
