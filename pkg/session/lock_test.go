package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/charter/pkg/domain"
)

// nopStore accepts everything and stores nothing.
type nopStore struct{}

func (nopStore) Save(ctx context.Context, userID string, s *domain.Session) error { return nil }
func (nopStore) Load(ctx context.Context, userID string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}
func (nopStore) Delete(ctx context.Context, userID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)      { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000
	now := time.Now()

	for i := 0; i < count; i++ {
		uid := fmt.Sprintf("user-%d", i)
		_ = mgr.Save(ctx, uid, domain.NewSession(uid, now))
		_ = mgr.Update(ctx, uid, func(ctx context.Context, _ *domain.Session) (*domain.Session, error) {
			return nil, nil
		})
		_ = mgr.Delete(ctx, uid)
	}

	lockCount := len(mgr.locks)
	t.Logf("Sessions Created: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
