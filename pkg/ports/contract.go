package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	userID := "contract-" + time.Now().Format("20060102150405")
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(userID, now)
		session.Step = domain.StepGuestCount
		session.Draft.Boat = "Bounty"
		guests := 6
		session.Draft.Guests = &guests

		require.NoError(t, store.Save(ctx, userID, session), "Save should not return error")

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StepGuestCount, loaded.Step)
		assert.Equal(t, "Bounty", loaded.Draft.Boat)
		require.NotNil(t, loaded.Draft.Guests)
		assert.Equal(t, 6, *loaded.Draft.Guests)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err)
		loaded.Draft.Boat = "Mutated"

		again, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Bounty", again.Draft.Boat)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, userID, domain.NewSession(userID, now)))

		require.NoError(t, store.Delete(ctx, userID), "Delete should not return error")

		_, err := store.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, userID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1, now))
		_ = store.Save(ctx, id2, domain.NewSession(id2, now))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
