package plansim

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/racedayai/planner/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	athleteKindDivisor = 6
)

// Constants for athlete metric ranges.
const (
	beginnerFTPMin       = 140.0
	beginnerFTPRange     = 60.0
	intermediateFTPMin   = 200.0
	intermediateFTPRange = 70.0
	advancedFTPMin       = 270.0
	advancedFTPRange     = 80.0

	runThresholdFastMin   = 200.0
	runThresholdFastRange = 40.0
	runThresholdMidMin    = 240.0
	runThresholdMidRange  = 60.0
	runThresholdSlowMin   = 300.0
	runThresholdSlowRange = 90.0

	swimCSSFastMin   = 75.0
	swimCSSFastRange = 15.0
	swimCSSMidMin    = 90.0
	swimCSSMidRange  = 20.0
	swimCSSSlowMin   = 110.0
	swimCSSSlowRange = 25.0

	weightMin   = 55.0
	weightRange = 40.0
	ageMin      = 18
	ageRange    = 42
)

// Athlete archetype cases.
const (
	caseBeginnerRunner   = 0
	caseBeginnerAllRound = 1
	caseIntermediate     = 2
	caseIntermediateFast = 3
	caseAdvanced         = 4
	caseAdvancedElite    = 5
)

var categories = []string{"sprint", "olympic", "half", "full"}

// Known venues exercise the catalog and cohort statistics paths.
var venues = []struct {
	id       string
	category string
	lat, lon float64
}{
	{"im703-zell-am-see", "half", 47.32, 12.79},
	{"im703-dubai", "half", 25.08, 55.14},
	{"im703-boulder", "half", 40.01, -105.27},
	{"im-frankfurt", "full", 50.11, 8.68},
	{"im-kona", "full", 19.64, -155.99},
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func getRandomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateSubmissions creates the requested number of plan submissions.
func generateSubmissions(ctx context.Context, config *Config, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating plan submissions", logger.Int("numPlans", config.NumPlans))

	subs := make([]Submission, config.NumPlans)
	for i := range subs {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		default:
		}
		subs[i] = generateSingleSubmission(i)
	}

	stats.PlansGenerated = len(subs)
	logger.Get().Info(ctx, "generated submissions successfully", logger.Int("count", len(subs)))
	return subs, nil
}

// generateSingleSubmission builds one submission from a random athlete archetype.
func generateSingleSubmission(index int) Submission {
	var s Submission
	s.RequestID = uuid.New().String()

	switch getRandomInt(athleteKindDivisor) {
	case caseBeginnerRunner:
		s.Athlete.Experience = "beginner"
		s.Athlete.FTPWatts = beginnerFTPMin + getRandomFloat()*beginnerFTPRange
		s.Athlete.RunThresholdSecPerKm = runThresholdFastMin + getRandomFloat()*runThresholdFastRange
		s.Athlete.SwimCSSSecPer100m = swimCSSSlowMin + getRandomFloat()*swimCSSSlowRange
	case caseBeginnerAllRound:
		s.Athlete.Experience = "beginner"
		s.Athlete.FTPWatts = beginnerFTPMin + getRandomFloat()*beginnerFTPRange
		s.Athlete.RunThresholdSecPerKm = runThresholdSlowMin + getRandomFloat()*runThresholdSlowRange
		s.Athlete.SwimCSSSecPer100m = swimCSSMidMin + getRandomFloat()*swimCSSMidRange
	case caseIntermediate:
		s.Athlete.Experience = "intermediate"
		s.Athlete.FTPWatts = intermediateFTPMin + getRandomFloat()*intermediateFTPRange
		s.Athlete.RunThresholdSecPerKm = runThresholdMidMin + getRandomFloat()*runThresholdMidRange
		s.Athlete.SwimCSSSecPer100m = swimCSSMidMin + getRandomFloat()*swimCSSMidRange
	case caseIntermediateFast:
		s.Athlete.Experience = "intermediate"
		s.Athlete.FTPWatts = intermediateFTPMin + getRandomFloat()*intermediateFTPRange
		s.Athlete.RunThresholdSecPerKm = runThresholdFastMin + getRandomFloat()*runThresholdFastRange
		s.Athlete.SwimCSSSecPer100m = swimCSSFastMin + getRandomFloat()*swimCSSFastRange
	case caseAdvanced:
		s.Athlete.Experience = "advanced"
		s.Athlete.FTPWatts = advancedFTPMin + getRandomFloat()*advancedFTPRange
		s.Athlete.RunThresholdSecPerKm = runThresholdMidMin + getRandomFloat()*runThresholdMidRange
		s.Athlete.SwimCSSSecPer100m = swimCSSMidMin + getRandomFloat()*swimCSSMidRange
	default:
		s.Athlete.Experience = "advanced"
		s.Athlete.FTPWatts = advancedFTPMin + getRandomFloat()*advancedFTPRange
		s.Athlete.RunThresholdSecPerKm = runThresholdFastMin + getRandomFloat()*runThresholdFastRange
		s.Athlete.SwimCSSSecPer100m = swimCSSFastMin + getRandomFloat()*swimCSSFastRange
	}

	s.Athlete.WeightKG = weightMin + getRandomFloat()*weightRange
	s.Athlete.Age = ageMin + int(getRandomInt(ageRange))
	if getRandomInt(2) == 0 {
		s.Athlete.Gender = "M"
	} else {
		s.Athlete.Gender = "F"
	}

	s.Race.Date = time.Now().UTC().AddDate(0, 1+int(getRandomInt(4)), 0).Format(time.RFC3339)

	// Half the submissions target a known venue, the rest a generic race.
	if getRandomInt(2) == 0 {
		venue := venues[getRandomInt(int64(len(venues)))]
		s.Race.Name = venue.id
		s.Race.CatalogID = venue.id
		s.Race.Category = venue.category
		s.Race.Lat = venue.lat
		s.Race.Lon = venue.lon
	} else {
		s.Race.Name = fmt.Sprintf("local race %d", index)
		s.Race.Category = categories[getRandomInt(int64(len(categories)))]
	}

	// Occasionally pin hot conditions to exercise heat adaptation.
	if getRandomInt(5) == 0 {
		s.WeatherOverride = &WeatherOverride{
			TemperatureC: 28 + getRandomFloat()*8,
			HumidityPct:  60 + getRandomFloat()*30,
			WindSpeedKph: getRandomFloat() * 30,
		}
	}

	s.Entitled = getRandomInt(4) == 0
	return s
}
