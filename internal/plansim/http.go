package plansim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitPlans submits plan requests concurrently using a worker pool and
// returns the plan ids the service assigned.
func submitPlans(ctx context.Context, config *Config, subs []Submission, stats *Stats) ([]string, error) {
	log.Printf("📤 Submitting %d plan requests with %d workers...", len(subs), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/plans"

	var (
		accepted  int64
		duplicate int64
		rejected  int64
		submitted int64
	)

	var mu sync.Mutex
	planIDs := make([]string, 0, len(subs))

	subChan := make(chan Submission, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				planID, result := submitSinglePlan(client, url, sub)
				atomic.AddInt64(&submitted, 1)
				switch result {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&rejected, 1)
				}
				if planID != "" {
					mu.Lock()
					planIDs = append(planIDs, planID)
					mu.Unlock()
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.PlansSubmitted = int(atomic.LoadInt64(&submitted))
	stats.PlansAccepted = int(atomic.LoadInt64(&accepted))
	stats.PlansDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.PlansRejected = int(atomic.LoadInt64(&rejected))

	log.Printf(`✅ Submission completed:
   Accepted: %d
   Duplicate: %d
   Rejected: %d
`, stats.PlansAccepted, stats.PlansDuplicate, stats.PlansRejected)

	return planIDs, nil
}

// submitSinglePlan posts one submission and classifies the outcome.
func submitSinglePlan(client *HTTPClient, url string, sub Submission) (string, string) {
	resp, err := client.Post(url, sub)
	if err != nil {
		return "", "rejected"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "", "rejected"
	}

	var ack AckResponse
	switch resp.StatusCode {
	case http.StatusAccepted:
		if err := json.Unmarshal(body, &ack); err != nil {
			return "", "rejected"
		}
		return ack.PlanID, "accepted"
	case http.StatusOK:
		if err := json.Unmarshal(body, &ack); err != nil {
			return "", "rejected"
		}
		return ack.PlanID, "duplicate"
	default:
		return "", "rejected"
	}
}

// awaitPlans polls plan status until every plan reaches a terminal state or
// the per-plan deadline passes. Returns the completed statuses.
func awaitPlans(ctx context.Context, config *Config, planIDs []string, stats *Stats) ([]StatusResponse, error) {
	log.Printf("⏳ Waiting for %d plans to complete...", len(planIDs))

	client := newHTTPClient(config.Timeout)

	var (
		completed int64
		failed    int64
		timedOut  int64
	)

	var mu sync.Mutex
	final := make([]StatusResponse, 0, len(planIDs))

	idChan := make(chan string, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				status, ok := pollSinglePlan(ctx, client, config, id)
				switch {
				case !ok:
					atomic.AddInt64(&timedOut, 1)
				case status.Status == "completed":
					atomic.AddInt64(&completed, 1)
					mu.Lock()
					final = append(final, status)
					mu.Unlock()
				default:
					atomic.AddInt64(&failed, 1)
					log.Printf("⚠️  Plan %s failed: %s", id, status.ErrorMessage)
				}
			}
		}()
	}

	go func() {
		defer close(idChan)
		for _, id := range planIDs {
			select {
			case <-ctx.Done():
				return
			case idChan <- id:
			}
		}
	}()

	wg.Wait()

	stats.PlansCompleted = int(atomic.LoadInt64(&completed))
	stats.PlansFailed = int(atomic.LoadInt64(&failed))
	stats.PlansTimedOut = int(atomic.LoadInt64(&timedOut))

	log.Printf(`✅ Generation completed:
   Completed: %d
   Failed: %d
   Timed out: %d
`, stats.PlansCompleted, stats.PlansFailed, stats.PlansTimedOut)

	return final, nil
}

// pollSinglePlan polls one plan until it is terminal. The bool result is
// false when the deadline passed first.
func pollSinglePlan(ctx context.Context, client *HTTPClient, config *Config, id string) (StatusResponse, bool) {
	url := config.BaseURL + "/plans/" + id + "/status"
	deadline := time.Now().Add(config.PollDeadline)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return StatusResponse{}, false
		case <-time.After(config.PollInterval):
		}

		resp, err := client.Get(url)
		if err != nil {
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}
		var status StatusResponse
		if err := json.Unmarshal(body, &status); err != nil {
			continue
		}
		if status.Status == "completed" || status.Status == "failed" {
			return status, true
		}
	}
	return StatusResponse{}, false
}
