// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/racedayai/planner/internal/adapters/mq/queue"
	workerpool "github.com/racedayai/planner/internal/adapters/mq/worker"
	"github.com/racedayai/planner/internal/adapters/narrative"
	"github.com/racedayai/planner/internal/adapters/repository"
	"github.com/racedayai/planner/internal/adapters/storage"
	"github.com/racedayai/planner/internal/domain/course"
	"github.com/racedayai/planner/internal/domain/plan"
	"github.com/racedayai/planner/internal/domain/products"
	"github.com/racedayai/planner/internal/domain/requestcache"
	"github.com/racedayai/planner/internal/domain/weather"
	"github.com/racedayai/planner/internal/orchestrator"
	"github.com/racedayai/planner/pkg/logger"
	"github.com/racedayai/planner/pkg/metrics"
)

// trackReaderAdapter exposes a storage.TrackStore as the byte-slice
// reader the course resolver wants.
type trackReaderAdapter struct {
	store storage.TrackStore
}

func (a *trackReaderAdapter) Read(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Service wires the queue, worker pool, store and orchestrator behind
// the operations the HTTP layer consumes.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	cache      requestcache.Cache
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool
	orch       *orchestrator.Orchestrator

	// Collaborators
	tracks          storage.TrackStore
	weatherProvider weather.Provider
	narrativeGen    narrative.Generator

	// Configuration
	workerCount int
	queueSize   int
	cacheSize   int
	shardCount  int

	// State
	started bool
	now     func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRequestCacheSize sets the size of the idempotency cache.
func WithRequestCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithStoreShardCount sets the number of plan store shards.
func WithStoreShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithTrackStore sets the track-file storage collaborator.
func WithTrackStore(store storage.TrackStore) Option {
	return func(s *Service) { s.tracks = store }
}

// WithWeatherProvider sets the weather data collaborator.
func WithWeatherProvider(p weather.Provider) Option {
	return func(s *Service) { s.weatherProvider = p }
}

// WithNarrative sets the optional text-generation collaborator.
func WithNarrative(gen narrative.Generator) Option {
	return func(s *Service) { s.narrativeGen = gen }
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		cacheSize:   50_000,
		shardCount:  8,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting planner service...")

	s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
	s.cache = requestcache.New(requestcache.WithMaxSize(s.cacheSize))
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)

	var tracks course.TrackReader
	if s.tracks != nil {
		tracks = &trackReaderAdapter{store: s.tracks}
	}
	courseResolver := course.NewResolver(tracks)
	weatherResolver := weather.NewResolver(s.weatherProvider)

	orchOpts := []orchestrator.Option{orchestrator.WithClock(s.now)}
	if s.narrativeGen != nil {
		orchOpts = append(orchOpts, orchestrator.WithNarrative(s.narrativeGen))
	}
	s.orch = orchestrator.New(s.store, courseResolver, weatherResolver, orchOpts...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.orch)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "planner service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping planner service...")

	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "planner service stopped")
}

// CreatePlan registers a generation request and enqueues it. requestID
// is the client's idempotency key; an empty one disables deduplication.
// The returned bool reports whether the submission was a duplicate.
func (s *Service) CreatePlan(ctx context.Context, req plan.GenerationRequest, requestID string) (string, bool, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", false, ErrNotStarted
	}

	planID := uuid.NewString()
	if requestID != "" {
		if existing, seen := s.cache.SeenOrRecord(ctx, requestID, planID); seen {
			metrics.RecordPlanDuplicate()
			s.logger.Debug(ctx, "duplicate submission",
				logger.String("requestID", requestID),
				logger.String("planID", existing),
			)
			return existing, true, nil
		}
	}

	p := plan.New(planID, req, s.now())
	if err := s.store.Create(ctx, p); err != nil {
		if requestID != "" {
			s.cache.Unrecord(ctx, requestID)
		}
		return "", false, fmt.Errorf("create plan: %w", err)
	}

	if !s.jobQueue.Enqueue(ctx, jobqueue.Job{PlanID: planID}) {
		if requestID != "" {
			s.cache.Unrecord(ctx, requestID)
		}
		return "", false, ErrBackpressure
	}

	metrics.RecordPlanRequested()
	return planID, false, nil
}

// PlanStatus returns the plan for status polling.
func (s *Service) PlanStatus(ctx context.Context, id string) (*plan.RacePlan, error) {
	return s.store.Get(ctx, id)
}

// PlanArtifact returns the full plan aggregate.
func (s *Service) PlanArtifact(ctx context.Context, id string) (*plan.RacePlan, error) {
	return s.store.Get(ctx, id)
}

// ApplyProductOverrides re-resolves the product stack with the user's
// per-slot choices. Unknown or wrong-slot ids fall back to the computed
// default. Only completed plans can be overridden.
func (s *Service) ApplyProductOverrides(ctx context.Context, id string, overrides map[products.Slot]string) (*plan.RacePlan, error) {
	return s.store.Update(ctx, id, func(p *plan.RacePlan) error {
		if p.Status != plan.StatusCompleted || p.Nutrition == nil || p.Course == nil {
			return ErrPlanNotReady
		}
		merged := make(map[products.Slot]string, len(p.Request.ProductOverrides)+len(overrides))
		for slot, pid := range p.Request.ProductOverrides {
			merged[slot] = pid
		}
		for slot, pid := range overrides {
			merged[slot] = pid
		}
		p.Request.ProductOverrides = merged

		hot := p.HeatRisk == weather.RiskHigh || p.HeatRisk == weather.RiskExtreme
		a := p.Request.Athlete.Normalize()
		p.Products = products.Select(p.Nutrition.Rates, p.Course.Category, hot, a.Experience, merged)
		p.UpdatedAt = s.now()
		return nil
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cacheSize":   s.cacheSize,
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.jobQueue.Len(ctx)
		stats["plansTracked"] = s.store.Count(ctx)
		stats["requestCacheSize"] = s.cache.Size()
	}
	return stats
}
