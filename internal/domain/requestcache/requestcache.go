// Package requestcache provides idempotency tracking for plan
// submissions: a client request id maps to the plan id it produced, so
// a retried submission returns the original plan instead of generating
// twice.
package requestcache

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cache records request ids and the plan each produced.
type Cache interface {
	// SeenOrRecord atomically looks up requestID. When already present it
	// returns the recorded plan id and true; otherwise it records the
	// mapping and returns planID and false.
	SeenOrRecord(ctx context.Context, requestID, planID string) (string, bool)

	// Unrecord removes a request id, allowing the submission to be
	// retried. Used when a recorded request could not be enqueued.
	Unrecord(ctx context.Context, requestID string)

	Size() int64
}

// node is a single entry in the eviction list.
type node struct {
	requestID string
	planID    string
	next      *node
}

func (n *node) reset() {
	n.requestID = ""
	n.planID = ""
	n.next = nil
}

// inMemoryCache implements Cache with a bounded map plus a linked list
// evicting the oldest entry at capacity. maxSize <= 0 disables eviction.
type inMemoryCache struct {
	mu      sync.Mutex
	entries map[string]*node
	head    *node
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// New creates an in-memory cache.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 50_000,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	if c.maxSize > 0 {
		c.pool = sync.Pool{New: func() any { return &node{} }}
	}
	return c
}

// Option applies a configuration option to the cache.
type Option func(*inMemoryCache)

// WithMaxSize bounds the number of tracked request ids. Values at or
// below zero disable eviction.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}

// SeenOrRecord atomically checks and records a request id.
func (c *inMemoryCache) SeenOrRecord(_ context.Context, requestID, planID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[requestID]; ok {
		if existing != nil {
			return existing.planID, true
		}
		return "", true
	}

	if c.maxSize > 0 {
		if len(c.entries) >= c.maxSize {
			c.evict()
		}
		n := c.pool.Get().(*node)
		n.requestID = requestID
		n.planID = planID
		n.next = c.head
		c.head = n
		c.entries[requestID] = n
	} else {
		n := &node{requestID: requestID, planID: planID}
		c.entries[requestID] = n
	}
	c.size.Add(1)
	return planID, false
}

// Unrecord removes a request id from the cache.
func (c *inMemoryCache) Unrecord(_ context.Context, requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[requestID]
	if !ok {
		return
	}
	delete(c.entries, requestID)
	c.size.Add(-1)

	if c.maxSize <= 0 || n == nil {
		return
	}
	if c.head == n {
		c.head = n.next
	} else {
		cur := c.head
		for cur != nil && cur.next != n {
			cur = cur.next
		}
		if cur != nil {
			cur.next = n.next
		}
	}
	n.reset()
	c.pool.Put(n)
}

// evict drops the oldest entry (list tail). Must hold c.mu.
func (c *inMemoryCache) evict() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.entries, c.head.requestID)
		c.head.reset()
		c.pool.Put(c.head)
		c.head = nil
		c.size.Add(-1)
		return
	}
	var prev *node
	cur := c.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	prev.next = nil
	delete(c.entries, cur.requestID)
	cur.reset()
	c.pool.Put(cur)
	c.size.Add(-1)
}

// Size returns the current number of tracked request ids.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
