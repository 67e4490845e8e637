// Package nutrition derives hourly fueling targets and expands them into
// a discrete, timestamped event timeline.
package nutrition

// Rates are the hourly fueling targets for the race.
type Rates struct {
	CarbsGPerHour   float64 `json:"carbsGPerHour"`
	FluidMlPerHour  float64 `json:"fluidMlPerHour"`
	SodiumMgPerHour float64 `json:"sodiumMgPerHour"`
}

// Duration and temperature thresholds below reproduce the hand-tuned step
// functions of the reference model verbatim. They are a fidelity
// requirement, not tuned values.
const (
	carbStepOneHours   = 1.5
	carbStepTwoHours   = 3.0
	carbStepThreeHours = 5.0

	warmTempC = 20.0
	hotTempC  = 27.0
)

// TargetRates computes hourly targets as step functions of expected total
// duration and temperature.
func TargetRates(totalMinutes, temperatureC float64) Rates {
	hours := totalMinutes / 60

	carbs := 60.0
	switch {
	case hours > carbStepThreeHours:
		carbs = 90
	case hours > carbStepTwoHours:
		carbs = 80
	case hours > carbStepOneHours:
		carbs = 70
	}

	fluid := 500.0
	sodium := 500.0
	switch {
	case temperatureC > hotTempC:
		fluid = 800
		sodium = 900
	case temperatureC > warmTempC:
		fluid = 650
		sodium = 700
	}

	return Rates{CarbsGPerHour: carbs, FluidMlPerHour: fluid, SodiumMgPerHour: sodium}
}
