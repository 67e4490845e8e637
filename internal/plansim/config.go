package plansim

import "time"

// Config holds configuration for the plan generation exercise
type Config struct {
	BaseURL      string        // Base URL of the service
	NumPlans     int           // Number of plan requests to generate
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Status poll cadence
	PollDeadline time.Duration // Per-plan completion deadline
	OutputFile   string        // Output file for generated submissions
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
}

// Submission mirrors the POST /plans request schema
type Submission struct {
	RequestID string `json:"requestId"`
	Athlete   struct {
		FTPWatts             float64 `json:"ftpWatts"`
		RunThresholdSecPerKm float64 `json:"runThresholdSecPerKm"`
		SwimCSSSecPer100m    float64 `json:"swimCssSecPer100m"`
		WeightKG             float64 `json:"weightKg"`
		Experience           string  `json:"experience"`
		Gender               string  `json:"gender,omitempty"`
		Age                  int     `json:"age,omitempty"`
	} `json:"athleteMetrics"`
	Race struct {
		Name      string  `json:"name"`
		CatalogID string  `json:"catalogId,omitempty"`
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		Lat       float64 `json:"lat,omitempty"`
		Lon       float64 `json:"lon,omitempty"`
	} `json:"raceMetadata"`
	WeatherOverride *WeatherOverride `json:"weatherOverride,omitempty"`
	Entitled        bool             `json:"entitled,omitempty"`
}

// WeatherOverride pins race-day conditions instead of the live forecast
type WeatherOverride struct {
	TemperatureC float64 `json:"temperatureC"`
	HumidityPct  float64 `json:"humidityPct"`
	WindSpeedKph float64 `json:"windSpeedKph"`
}

// AckResponse represents the response from plan submission
type AckResponse struct {
	Status    string `json:"status"`
	PlanID    string `json:"plan_id"`
	Duplicate bool   `json:"duplicate"`
}

// StatusResponse represents the response from status polling
type StatusResponse struct {
	PlanID       string `json:"plan_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Progress     struct {
		Weather    bool `json:"weather"`
		Pacing     bool `json:"pacing"`
		Nutrition  bool `json:"nutrition"`
		Statistics bool `json:"statistics"`
		Narrative  bool `json:"narrative"`
	} `json:"progress"`
}

// Stats holds run statistics
type Stats struct {
	PlansGenerated int
	PlansSubmitted int
	PlansAccepted  int
	PlansDuplicate int
	PlansRejected  int
	PlansCompleted int
	PlansFailed    int
	PlansTimedOut  int
	PlansVerified  int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
