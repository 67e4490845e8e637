// Package orchestrator drives the three-phase generation pipeline:
// Prepare resolves course and weather, Compute derives the pacing,
// nutrition and statistics blocks, Narrative attaches optional prose.
// Progress is persisted per phase so polling clients see fields as soon
// as they exist.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/racedayai/planner/internal/adapters/narrative"
	"github.com/racedayai/planner/internal/adapters/repository"
	"github.com/racedayai/planner/internal/domain/course"
	"github.com/racedayai/planner/internal/domain/nutrition"
	"github.com/racedayai/planner/internal/domain/pacing"
	"github.com/racedayai/planner/internal/domain/plan"
	"github.com/racedayai/planner/internal/domain/products"
	"github.com/racedayai/planner/internal/domain/stats"
	"github.com/racedayai/planner/internal/domain/weather"
	"github.com/racedayai/planner/pkg/logger"
	"github.com/racedayai/planner/pkg/metrics"
)

// CourseResolver resolves course geometry for a request.
type CourseResolver interface {
	Resolve(ctx context.Context, req course.Request) course.Profile
}

// WeatherResolver resolves race-day conditions.
type WeatherResolver interface {
	Resolve(ctx context.Context, lat, lon float64, date time.Time, override *weather.Snapshot) weather.Snapshot
}

// Orchestrator runs generations against the plan store.
type Orchestrator struct {
	store     repository.Store
	courses   CourseResolver
	weather   WeatherResolver
	narrative narrative.Generator

	now func() time.Time
	log logger.Logger
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithNarrative sets the optional narrative generator.
func WithNarrative(gen narrative.Generator) Option {
	return func(o *Orchestrator) { o.narrative = gen }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// New builds an orchestrator.
func New(store repository.Store, courses CourseResolver, weatherRes WeatherResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   store,
		courses: courses,
		weather: weatherRes,
		now:     time.Now,
		log:     logger.Named("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GeneratePlan runs the full pipeline for one plan id. It transitions
// the plan exactly once end-to-end; a second trigger for the same id
// fails the lifecycle check and returns without touching the plan.
func (o *Orchestrator) GeneratePlan(ctx context.Context, planID string) error {
	current, err := o.store.Update(ctx, planID, func(p *plan.RacePlan) error {
		return p.Transition(plan.StatusGenerating, o.now())
	})
	if err != nil {
		return fmt.Errorf("start generation %s: %w", planID, err)
	}

	if err := o.runPhases(ctx, current); err != nil {
		o.failPlan(ctx, planID, err)
		return err
	}

	if _, err := o.store.Update(ctx, planID, func(p *plan.RacePlan) error {
		return p.Transition(plan.StatusCompleted, o.now())
	}); err != nil {
		return fmt.Errorf("complete %s: %w", planID, err)
	}
	metrics.RecordPlanCompleted()
	return nil
}

// runPhases executes Prepare, Compute and Narrative. Unexpected panics
// in the business logic become pipeline faults rather than crashing the
// worker.
func (o *Orchestrator) runPhases(ctx context.Context, p *plan.RacePlan) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panic: %v", r)
		}
	}()

	prepared, err := o.prepare(ctx, p)
	if err != nil {
		return err
	}
	if err := o.compute(ctx, prepared); err != nil {
		return err
	}
	o.attachNarrative(ctx, prepared.ID)
	return nil
}

// prepare resolves course and weather concurrently and persists both in
// one update. Resolvers degrade internally and never fail, so the only
// errors out of this phase are store faults.
func (o *Orchestrator) prepare(ctx context.Context, p *plan.RacePlan) (*plan.RacePlan, error) {
	start := o.now()
	req := p.Request

	courseReq := course.Request{
		RaceName:  req.Race.Name,
		Category:  req.Race.Category,
		CatalogID: req.Race.CatalogID,
		Lat:       req.Race.Lat,
		Lon:       req.Race.Lon,
	}
	if req.CourseSource != nil {
		courseReq.TrackKey = req.CourseSource.TrackKey
		courseReq.Imported = req.CourseSource.Imported
	}

	lat, lon := req.Race.Lat, req.Race.Lon
	if lat == 0 && lon == 0 && req.Race.CatalogID != "" {
		if entry, ok := course.LookupRace(req.Race.CatalogID); ok {
			lat, lon = entry.Lat, entry.Lon
		}
	}

	var (
		profile course.Profile
		snap    weather.Snapshot
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile = o.courses.Resolve(ctx, courseReq)
	}()
	go func() {
		defer wg.Done()
		snap = o.weather.Resolve(ctx, lat, lon, req.Race.Date, req.WeatherOverride)
	}()
	wg.Wait()

	updated, err := o.store.Update(ctx, p.ID, func(stored *plan.RacePlan) error {
		stored.Course = &profile
		stored.Weather = &snap
		stored.WeatherImpactPct = weather.CombinedImpactPct(snap)
		stored.HeatRisk = weather.HeatRisk(snap)
		stored.MarkProgress(plan.Progress{Weather: true})
		stored.UpdatedAt = o.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist prepare: %w", err)
	}
	metrics.RecordPhaseDuration("prepare", o.now().Sub(start).Seconds())
	return updated, nil
}

// compute runs the synchronous business logic and persists the whole
// artifact in a single update so no partially computed block is ever
// visible.
func (o *Orchestrator) compute(ctx context.Context, p *plan.RacePlan) error {
	start := o.now()

	a := p.Request.Athlete.Normalize()
	pac := pacing.Plan(a, *p.Course, p.WeatherImpactPct)
	trans := plan.Transitions(a.Experience)
	totalMinutes := pacing.TotalRaceMinutes(pac, trans.T1Sec/60, trans.T2Sec/60)

	rates := nutrition.TargetRates(totalMinutes, p.Weather.TemperatureC)
	durations := nutrition.SegmentDurations{
		SwimMin: pac.Swim.EstimatedMinutes,
		T1Min:   trans.T1Sec / 60,
		BikeMin: pac.Bike.EstimatedMinutes,
		T2Min:   trans.T2Sec / 60,
		RunMin:  pac.Run.EstimatedMinutes,
	}
	nut := nutrition.BuildTimeline(durations, rates, p.Course.Category == course.CategorySprint)

	hot := p.HeatRisk == weather.RiskHigh || p.HeatRisk == weather.RiskExtreme
	stack := products.Select(rates, p.Course.Category, hot, a.Experience, p.Request.ProductOverrides)

	statistics := stats.Build(stats.Request{
		PredictedTotalSec: totalMinutes * 60,
		CohortKey:         a.CohortKey(),
		RaceID:            p.Request.Race.CatalogID,
		RaceYear:          p.Request.Race.Date.Year(),
	})

	if _, err := o.store.Update(ctx, p.ID, func(stored *plan.RacePlan) error {
		stored.Pacing = &pac
		stored.Nutrition = &nut
		stored.Products = stack
		stored.Statistics = &statistics
		stored.Transitions = &trans
		stored.MarkProgress(plan.Progress{Pacing: true, Nutrition: true, Statistics: true})
		stored.UpdatedAt = o.now()
		return nil
	}); err != nil {
		return fmt.Errorf("persist compute: %w", err)
	}
	metrics.RecordPhaseDuration("compute", o.now().Sub(start).Seconds())
	return nil
}

// attachNarrative is best effort: non-entitlement, a disabled client
// and upstream failures all leave the plan completing without prose.
func (o *Orchestrator) attachNarrative(ctx context.Context, planID string) {
	p, err := o.store.Get(ctx, planID)
	if err != nil {
		return
	}
	if !p.Request.Entitled || o.narrative == nil || !o.narrative.Enabled() {
		return
	}

	start := o.now()
	text, err := o.narrative.Generate(ctx, buildPrompt(p))
	if err != nil {
		metrics.RecordNarrativeSkip()
		o.log.Warn(ctx, "narrative generation skipped",
			logger.String("planID", planID),
			logger.Error(err),
		)
		return
	}

	_, _ = o.store.Update(ctx, planID, func(stored *plan.RacePlan) error {
		stored.Narrative = text
		stored.MarkProgress(plan.Progress{Narrative: true})
		stored.UpdatedAt = o.now()
		return nil
	})
	metrics.RecordPhaseDuration("narrative", o.now().Sub(start).Seconds())
}

// failPlan marks the plan failed with a human-readable message. An
// already-terminal plan is left untouched.
func (o *Orchestrator) failPlan(ctx context.Context, planID string, cause error) {
	metrics.RecordPlanFailed()
	if _, err := o.store.Update(ctx, planID, func(p *plan.RacePlan) error {
		return p.Fail(cause.Error(), o.now())
	}); err != nil {
		o.log.Error(ctx, "could not mark plan failed",
			logger.String("planID", planID),
			logger.Error(err),
		)
	}
}

// buildPrompt summarizes the computed plan for the text generator.
func buildPrompt(p *plan.RacePlan) string {
	if p.Pacing == nil || p.Course == nil || p.Weather == nil {
		return fmt.Sprintf("Race plan for %s.", p.Request.Race.Name)
	}
	return fmt.Sprintf(
		"Race: %s (%s). Bike target %.0fW at IF %.2f, run target %.0f s/km. "+
			"Expected %.0f°C, %.0f%% humidity, wind %.0f kph. "+
			"Fueling %.0f g carbs/h, %.0f ml fluid/h. "+
			"Write concise, encouraging race-execution guidance.",
		p.Request.Race.Name, p.Course.Category,
		p.Pacing.Bike.TargetPowerW, p.Pacing.Bike.IntensityFactor,
		p.Pacing.Run.TargetPaceSecPerKm,
		p.Weather.TemperatureC, p.Weather.HumidityPct, p.Weather.WindSpeedKph,
		ratesOf(p).CarbsGPerHour, ratesOf(p).FluidMlPerHour,
	)
}

func ratesOf(p *plan.RacePlan) nutrition.Rates {
	if p.Nutrition == nil {
		return nutrition.Rates{}
	}
	return p.Nutrition.Rates
}
