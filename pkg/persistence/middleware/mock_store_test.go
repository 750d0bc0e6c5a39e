package middleware_test

import (
	"context"
	"sync"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
// It keeps the pointers it is given so tests can inspect what was written.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (s *MockStore) Save(ctx context.Context, userID string, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = session
	return nil
}

func (s *MockStore) Load(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *MockStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.SessionStore = (*MockStore)(nil)

// MockJournal records bookings in memory.
type MockJournal struct {
	Bookings []domain.Booking
}

func (j *MockJournal) Record(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	b.ID = int64(len(j.Bookings) + 1)
	j.Bookings = append(j.Bookings, b)
	return b, nil
}

func (j *MockJournal) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	return j.Bookings, nil
}

var _ ports.Journal = (*MockJournal)(nil)
