package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/racedayai/planner/internal/adapters/repository"
	service "github.com/racedayai/planner/internal/app"
	"github.com/racedayai/planner/internal/domain/products"
)

// PlansHandler handles plan submission and retrieval requests.
type PlansHandler struct {
	deps Dependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps Dependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

// HandleCreatePlan handles POST /plans requests.
func (h *PlansHandler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_plan"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// The X-Request-ID header wins over the body token when both are set.
	requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
	if requestID == "" {
		requestID = strings.TrimSpace(req.RequestID)
	}

	planID, duplicate, err := h.deps.CreatePlan(r.Context(), req.GenerationRequest, requestID)
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", PlanID: planID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", PlanID: planID, Duplicate: false})
}

// HandlePlanResource dispatches /plans/{id}, /plans/{id}/status and
// /plans/{id}/products requests.
func (h *PlansHandler) HandlePlanResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/plans/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.handleGetPlan(w, r, id)
	case sub == "status" && r.Method == http.MethodGet:
		h.handleGetStatus(w, r, id)
	case sub == "products" && r.Method == http.MethodPost:
		h.handleApplyOverrides(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *PlansHandler) handleGetStatus(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.deps.PlanStatus(r.Context(), id)
	if err != nil {
		writePlanError(w, "api.plan_status", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		PlanID:       p.ID,
		Status:       p.Status,
		Progress:     p.Progress,
		ErrorMessage: p.ErrorMessage,
	})
}

func (h *PlansHandler) handleGetPlan(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.deps.PlanArtifact(r.Context(), id)
	if err != nil {
		writePlanError(w, "api.plan_artifact", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// overridesRequest mirrors the OpenAPI schema for POST /plans/{id}/products.
type overridesRequest struct {
	Overrides map[products.Slot]string `json:"overrides"`
}

func (h *PlansHandler) handleApplyOverrides(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.apply_overrides"
	var req overridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Overrides) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	p, err := h.deps.ApplyProductOverrides(r.Context(), id, req.Overrides)
	if err != nil {
		writePlanError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// writePlanError translates service and repository sentinels to HTTP statuses.
func writePlanError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrPlanNotReady):
		writeError(w, http.StatusConflict, "plan_not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
