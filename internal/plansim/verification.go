package plansim

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// planArtifact carries the slice of the full plan payload the verifier
// inspects. Unknown fields are ignored.
type planArtifact struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Pacing *struct {
		Bike struct {
			TargetPowerW float64 `json:"targetPowerW"`
		} `json:"bike"`
		Run struct {
			TargetPaceSecPerKm float64 `json:"targetPaceSecPerKm"`
		} `json:"run"`
	} `json:"pacing"`
	Nutrition *struct {
		Rates struct {
			CarbsGPerHour float64 `json:"carbsGPerHour"`
		} `json:"rates"`
		Events []json.RawMessage `json:"events"`
	} `json:"nutrition"`
	Products   map[string]json.RawMessage `json:"products"`
	Statistics *struct {
		Available  bool    `json:"available"`
		Percentile float64 `json:"percentile"`
	} `json:"statistics"`
}

// verifyPlans fetches completed plan artifacts and checks the blocks a
// finished generation must carry.
func verifyPlans(config *Config, statuses []StatusResponse, stats *Stats) error {
	log.Println("🔍 Verifying completed plans...")

	if len(statuses) == 0 {
		return fmt.Errorf("no completed plans to verify")
	}

	client := newHTTPClient(config.Timeout)
	verified := 0

	for _, status := range statuses {
		artifact, err := fetchArtifact(client, config.BaseURL, status.PlanID)
		if err != nil {
			log.Printf("⚠️  Plan %s artifact fetch failed: %v", status.PlanID, err)
			continue
		}
		if err := checkArtifact(artifact); err != nil {
			log.Printf("⚠️  Plan %s failed verification: %v", status.PlanID, err)
			continue
		}
		verified++
		if config.Verbose {
			log.Printf("   %s: bike %.0fW, run %.0fs/km, %.0fg carbs/h, percentile %.1f",
				artifact.ID,
				artifact.Pacing.Bike.TargetPowerW,
				artifact.Pacing.Run.TargetPaceSecPerKm,
				artifact.Nutrition.Rates.CarbsGPerHour,
				artifact.Statistics.Percentile)
		}
	}

	stats.PlansVerified = verified
	log.Printf("✅ Verified %d/%d completed plans", verified, len(statuses))
	return nil
}

func fetchArtifact(client *HTTPClient, baseURL, id string) (*planArtifact, error) {
	resp, err := client.Get(baseURL + "/plans/" + id)
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var artifact planArtifact
	if err := json.Unmarshal(body, &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// checkArtifact validates the invariants of a completed plan.
func checkArtifact(a *planArtifact) error {
	switch {
	case a.Status != "completed":
		return fmt.Errorf("unexpected status %q", a.Status)
	case a.Pacing == nil:
		return fmt.Errorf("missing pacing block")
	case a.Pacing.Bike.TargetPowerW <= 0:
		return fmt.Errorf("non-positive bike target %.1f", a.Pacing.Bike.TargetPowerW)
	case a.Pacing.Run.TargetPaceSecPerKm <= 0:
		return fmt.Errorf("non-positive run pace %.1f", a.Pacing.Run.TargetPaceSecPerKm)
	case a.Nutrition == nil:
		return fmt.Errorf("missing nutrition block")
	case a.Nutrition.Rates.CarbsGPerHour <= 0:
		return fmt.Errorf("non-positive carb rate %.1f", a.Nutrition.Rates.CarbsGPerHour)
	case len(a.Nutrition.Events) == 0:
		return fmt.Errorf("empty nutrition schedule")
	case len(a.Products) == 0:
		return fmt.Errorf("empty product stack")
	case a.Statistics == nil:
		return fmt.Errorf("missing statistics block")
	}
	if a.Statistics.Available && (a.Statistics.Percentile < 0 || a.Statistics.Percentile > 100) {
		return fmt.Errorf("percentile %.1f out of range", a.Statistics.Percentile)
	}
	return nil
}
