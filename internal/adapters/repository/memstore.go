package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/racedayai/planner/internal/domain/plan"
	"github.com/racedayai/planner/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Plans are partitioned across shards by an FNV-1a hash of the id, so
// concurrent generations on different plans rarely contend on the same
// lock. Within a shard the RWMutex gives polling clients lock-free-ish
// reads against the single writer per plan.

const defaultShardCount = 8

type shard struct {
	mu    sync.RWMutex
	plans map[string]*plan.RacePlan
}

// MemStore is the sharded in-memory Store.
type MemStore struct {
	shards []*shard

	metricsUpdateInterval time.Duration
	stopMetrics           chan struct{}
	stopOnce              sync.Once
}

// NewMemStore builds a store with the given number of shards; values
// below one fall back to the default.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		metricsUpdateInterval: 5 * time.Second,
		stopMetrics:           make(chan struct{}),
	}
	shardCount := defaultShardCount
	for _, opt := range opts {
		if n := opt(s); n > 0 {
			shardCount = n
		}
	}
	s.shards = make([]*shard, shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{plans: make(map[string]*plan.RacePlan)}
	}
	go s.metricsLoop()
	return s
}

// Option applies a configuration option to the MemStore. The returned
// int, when positive, overrides the shard count.
type Option func(*MemStore) int

// WithShardCount sets the number of lock shards.
func WithShardCount(n int) Option {
	return func(*MemStore) int { return n }
}

// WithMetricsUpdateInterval sets the interval for background metrics
// updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemStore) int {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
		return 0
	}
}

func (s *MemStore) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Create registers a new plan under its id.
func (s *MemStore) Create(_ context.Context, p *plan.RacePlan) error {
	if p == nil || p.ID == "" {
		return ErrNilPlan
	}
	sh := s.shardFor(p.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, exists := sh.plans[p.ID]; exists {
		return ErrAlreadyExists
	}
	cp := *p
	sh.plans[p.ID] = &cp
	return nil
}

// Get returns a copy of the stored plan.
//
// The copy is shallow: nested artifact blocks are written once under
// the shard lock and never mutated in place afterwards, so sharing
// them with readers is safe.
func (s *MemStore) Get(_ context.Context, id string) (*plan.RacePlan, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	p, ok := sh.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Update applies mutate under the shard lock.
func (s *MemStore) Update(_ context.Context, id string, mutate func(*plan.RacePlan) error) (*plan.RacePlan, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	p, ok := sh.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := mutate(p); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

// Count returns the number of plans across all shards.
func (s *MemStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.plans)
		sh.mu.RUnlock()
	}
	return total
}

// Close stops the background metrics loop.
func (s *MemStore) Close() {
	s.stopOnce.Do(func() { close(s.stopMetrics) })
}

// metricsLoop periodically publishes tracked-plan gauges.
func (s *MemStore) metricsLoop() {
	ticker := time.NewTicker(s.metricsUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopMetrics:
			return
		case <-ticker.C:
			s.publishMetrics()
		}
	}
}

func (s *MemStore) publishMetrics() {
	byStatus := map[plan.Status]int{}
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, p := range sh.plans {
			byStatus[p.Status]++
			total++
		}
		sh.mu.RUnlock()
	}
	metrics.UpdatePlansTracked(total)
	for _, st := range []plan.Status{plan.StatusPending, plan.StatusGenerating, plan.StatusCompleted, plan.StatusFailed} {
		metrics.UpdatePlansByStatus(string(st), byStatus[st])
	}
}
