// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/racedayai/planner/internal/domain/plan"
	"github.com/racedayai/planner/internal/domain/products"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CreatePlan registers a submission and queues it for async generation.
	// The returned bool marks an idempotent duplicate of an earlier request.
	CreatePlan(ctx context.Context, req plan.GenerationRequest, requestID string) (string, bool, error)

	// PlanStatus returns the plan for status polling.
	PlanStatus(ctx context.Context, id string) (*plan.RacePlan, error)

	// PlanArtifact returns the full plan aggregate.
	PlanArtifact(ctx context.Context, id string) (*plan.RacePlan, error)

	// ApplyProductOverrides re-resolves the product stack of a completed plan.
	ApplyProductOverrides(ctx context.Context, id string, overrides map[products.Slot]string) (*plan.RacePlan, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	plansHandler  *PlansHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		plansHandler:  NewPlansHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/plans", MetricsMiddleware(s.plansHandler.HandleCreatePlan, "plans"))
	mux.HandleFunc("/plans/", MetricsMiddleware(s.plansHandler.HandlePlanResource, "plan"))
}

// planRequest mirrors the OpenAPI schema for POST /plans. The embedded
// generation request carries its own JSON field names; RequestID is the
// caller-supplied idempotency token.
type planRequest struct {
	plan.GenerationRequest
	RequestID string `json:"requestId,omitempty"`
}

func (p planRequest) validate() error {
	switch {
	case !p.Race.Category.Valid():
		return errors.New("invalid or missing raceMetadata.category")
	case p.Race.Date.IsZero():
		return errors.New("missing raceMetadata.date")
	case p.Athlete.Age < 0:
		return errors.New("invalid athleteMetrics.age")
	}
	if g := strings.ToUpper(strings.TrimSpace(p.Athlete.Gender)); g != "" && g != "M" && g != "F" {
		return errors.New("invalid athleteMetrics.gender; must be M or F")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	PlanID    string `json:"plan_id"`
	Duplicate bool   `json:"duplicate"`
}

type statusResponse struct {
	PlanID       string        `json:"plan_id"`
	Status       plan.Status   `json:"status"`
	Progress     plan.Progress `json:"progress"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
