package weatherapi

import "errors"

// Sentinel kinds for weather API errors.
var (
	ErrNoData   = errors.New("no weather data for date")
	ErrUpstream = errors.New("weather api error")
)
