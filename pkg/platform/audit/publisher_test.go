package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagov/pkg/domain"
)

func TestEmitFillsDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	pub := NewPublisher(store)

	user := domain.UserID(uuid.New())
	require.NoError(t, pub.Emit(ctx, Event{
		UserID: user,
		Action: string(ActionConsentGranted),
	}))

	events := store.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, CategoryCompliance, events[0].Category)
}

func TestEmitKeepsExplicitFields(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	pub := NewPublisher(store)

	ts := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(ctx, Event{
		Timestamp: ts,
		Category:  CategoryOperations,
		Action:    string(ActionConsentGranted),
	}))

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.Equal(t, CategoryOperations, events[0].Category)
}

func TestActionCategory(t *testing.T) {
	assert.Equal(t, CategoryCompliance, ActionUserAnonymized.Category())
	assert.Equal(t, CategoryOperations, ActionRetentionApplied.Category())
	assert.Equal(t, CategoryOperations, Action("something_new").Category())
}

func TestInMemoryListing(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	user := domain.UserID(uuid.New())

	for i, action := range []Action{ActionConsentGranted, ActionConsentRevoked, ActionUserAnonymized} {
		require.NoError(t, store.Append(ctx, Event{
			UserID:    user,
			Action:    string(action),
			Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Append(ctx, Event{
		UserID: domain.UserID(uuid.New()),
		Action: string(ActionConsentGranted),
	}))

	byUser, err := store.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, byUser, 3)
	assert.Equal(t, string(ActionUserAnonymized), byUser[0].Action)

	recent, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
