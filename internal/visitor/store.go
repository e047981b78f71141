package visitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/learnova/internal/authflow"
)

// DefaultTTL is how long an idle visitor is kept.
const DefaultTTL = 30 * time.Minute

// FlowFactory builds the auth flow for a new visitor.
type FlowFactory func(v *Visitor) *authflow.Flow

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is an in-memory registry of visitors keyed by id.
type Store struct {
	mu       sync.Mutex
	visitors map[string]*Visitor

	newFlow FlowFactory
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a Store. newFlow is called once per visitor.
func NewStore(newFlow FlowFactory, opts ...Option) *Store {
	s := &Store{
		visitors: make(map[string]*Visitor),
		newFlow:  newFlow,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the visitor with id, marking it as seen.
func (s *Store) Get(id string) (*Visitor, bool) {
	s.mu.Lock()
	v, ok := s.visitors[id]
	s.mu.Unlock()
	if ok {
		v.touch(s.now())
	}
	return v, ok
}

// GetOrCreate returns the visitor with id, or a new visitor with a fresh id
// when id is empty or unknown. created reports which.
func (s *Store) GetOrCreate(id string) (v *Visitor, created bool) {
	if id != "" {
		if v, ok := s.Get(id); ok {
			return v, false
		}
	}

	v = newVisitor(uuid.NewString(), s.now())
	if s.newFlow != nil {
		v.Flow = s.newFlow(v)
	} else {
		v.Flow = authflow.New(nil, v)
	}

	s.mu.Lock()
	s.visitors[v.ID] = v
	s.mu.Unlock()
	return v, true
}

// Len returns the number of visitors held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// Sweep removes visitors idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, v := range s.visitors {
		if v.idleSince(now) > s.ttl {
			delete(s.visitors, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Visitor janitor stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("Swept idle visitors", "removed", n, "remaining", s.Len())
			}
		}
	}
}
