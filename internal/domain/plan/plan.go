// Package plan defines the race plan aggregate: the generation request,
// the lifecycle state machine and the artifact assembled by the
// generation pipeline.
package plan

import (
	"time"

	"github.com/racedayai/planner/internal/domain/athlete"
	"github.com/racedayai/planner/internal/domain/course"
	"github.com/racedayai/planner/internal/domain/nutrition"
	"github.com/racedayai/planner/internal/domain/pacing"
	"github.com/racedayai/planner/internal/domain/products"
	"github.com/racedayai/planner/internal/domain/stats"
	"github.com/racedayai/planner/internal/domain/weather"
)

// Status is the lifecycle state of a plan.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// validNext encodes the lifecycle: pending -> generating -> completed,
// with failed reachable from generating and absorbing.
var validNext = map[Status][]Status{
	StatusPending:    {StatusGenerating},
	StatusGenerating: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle step.
func (s Status) CanTransition(next Status) bool {
	for _, n := range validNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

// Progress tracks which artifact sections have been produced. Flags are
// monotone for a given plan: once set they never clear.
type Progress struct {
	Weather    bool `json:"weather"`
	Pacing     bool `json:"pacing"`
	Nutrition  bool `json:"nutrition"`
	Statistics bool `json:"statistics"`
	Narrative  bool `json:"narrative"`
}

// Merge ORs in the flags of other, preserving monotonicity.
func (p Progress) Merge(other Progress) Progress {
	return Progress{
		Weather:    p.Weather || other.Weather,
		Pacing:     p.Pacing || other.Pacing,
		Nutrition:  p.Nutrition || other.Nutrition,
		Statistics: p.Statistics || other.Statistics,
		Narrative:  p.Narrative || other.Narrative,
	}
}

// RaceMetadata describes the event the plan is for.
type RaceMetadata struct {
	Name      string          `json:"name"`
	CatalogID string          `json:"catalogId,omitempty"`
	Category  course.Category `json:"category"`
	Date      time.Time       `json:"date"`
	Lat       float64         `json:"lat,omitempty"`
	Lon       float64         `json:"lon,omitempty"`
}

// CourseSource names an explicit course geometry input: an uploaded
// track file in object storage or an imported route summary.
type CourseSource struct {
	TrackKey string                `json:"trackKey,omitempty"`
	Imported *course.ImportedRoute `json:"imported,omitempty"`
}

// GenerationRequest is the full input captured at submission time.
type GenerationRequest struct {
	Athlete          athlete.Profile          `json:"athleteMetrics"`
	Race             RaceMetadata             `json:"raceMetadata"`
	CourseSource     *CourseSource            `json:"courseSource,omitempty"`
	WeatherOverride  *weather.Snapshot        `json:"weatherOverride,omitempty"`
	ProductOverrides map[products.Slot]string `json:"productOverrides,omitempty"`
	// Entitled gates the narrative phase.
	Entitled bool `json:"entitled,omitempty"`
}

// TransitionPlan is the budgeted T1/T2 timing block.
type TransitionPlan struct {
	T1Sec float64 `json:"t1Sec"`
	T2Sec float64 `json:"t2Sec"`
}

// transitionBudgets keys typical transition times off racing experience.
var transitionBudgets = map[athlete.ExperienceTier]TransitionPlan{
	athlete.TierBeginner:     {T1Sec: 300, T2Sec: 180},
	athlete.TierIntermediate: {T1Sec: 240, T2Sec: 150},
	athlete.TierAdvanced:     {T1Sec: 180, T2Sec: 120},
}

// Transitions returns the T1/T2 budget for an experience tier.
func Transitions(tier athlete.ExperienceTier) TransitionPlan {
	if t, ok := transitionBudgets[tier]; ok {
		return t
	}
	return transitionBudgets[athlete.TierIntermediate]
}

// RacePlan is the aggregate a generation produces and clients poll.
type RacePlan struct {
	ID           string    `json:"id"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Progress     Progress  `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Request GenerationRequest `json:"request"`

	Course           *course.Profile   `json:"course,omitempty"`
	Weather          *weather.Snapshot `json:"weather,omitempty"`
	WeatherImpactPct float64           `json:"weatherImpactPct,omitempty"`
	HeatRisk         weather.Risk      `json:"heatRisk,omitempty"`

	Pacing      *pacing.Result  `json:"pacing,omitempty"`
	Nutrition   *nutrition.Plan `json:"nutrition,omitempty"`
	Products    products.Stack  `json:"products,omitempty"`
	Statistics  *stats.Context  `json:"statistics,omitempty"`
	Transitions *TransitionPlan `json:"transitions,omitempty"`
	Narrative   string          `json:"narrative,omitempty"`
}

// New returns a pending plan for the given request.
func New(id string, req GenerationRequest, now time.Time) *RacePlan {
	return &RacePlan{
		ID:        id,
		Status:    StatusPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the plan to next, or returns ErrInvalidTransition
// when the lifecycle forbids it.
func (p *RacePlan) Transition(next Status, now time.Time) error {
	if !p.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	p.Status = next
	p.UpdatedAt = now
	return nil
}

// Fail moves the plan to failed and records the message.
func (p *RacePlan) Fail(msg string, now time.Time) error {
	if err := p.Transition(StatusFailed, now); err != nil {
		return err
	}
	p.ErrorMessage = msg
	return nil
}

// MarkProgress ORs flags into the plan's progress.
func (p *RacePlan) MarkProgress(flags Progress) {
	p.Progress = p.Progress.Merge(flags)
}
