package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use. Sessions idle for longer than the TTL are evicted
// by Sweep, which Start runs periodically.
type Store struct {
	data map[string]*domain.Session
	mu   sync.RWMutex

	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the idle timeout. Zero keeps sessions forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used by the janitor.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:   make(map[string]*domain.Session),
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists the session in memory. The stored copy is stamped with the current time.
func (s *Store) Save(ctx context.Context, userID string, session *domain.Session) error {
	copied := session.Clone()
	copied.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = copied
	return nil
}

// Load retrieves the session from memory.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[userID]
	if !ok || s.expired(session, s.now()) {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate store state by pointer.
	return session.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	sessions := make([]string, 0, len(s.data))
	for id, session := range s.data {
		if !s.expired(session, now) {
			sessions = append(sessions, id)
		}
	}
	return sessions, nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sweep evicts sessions idle since before now-TTL and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.data {
		if s.expired(session, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Start runs Sweep every interval until ctx is done.
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(s.now()); n > 0 {
					s.logger.Debug("evicted idle sessions", "count", n)
				}
			}
		}
	}()
}

func (s *Store) expired(session *domain.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(session.UpdatedAt) > s.ttl
}
