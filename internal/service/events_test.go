package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/target/crewboard/internal/errors"
)

func TestEventService_SetStatus(t *testing.T) {
	var gotID int64
	var gotActive bool
	repo := &mockEventRepo{setActiveFunc: func(_ context.Context, id int64, active bool) (bool, error) {
		gotID, gotActive = id, active
		return id == 7, nil
	}}
	svc := NewEventService(EventServiceOptions{Events: repo})
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, 7, "inactive"))
	assert.Equal(t, int64(7), gotID)
	assert.False(t, gotActive)

	require.NoError(t, svc.SetStatus(ctx, 7, "ACTIVE"))
	assert.True(t, gotActive)

	err := svc.SetStatus(ctx, 8, "active")
	assert.True(t, apperrors.IsNotFound(err))

	err = svc.SetStatus(ctx, 7, "paused")
	assert.True(t, apperrors.IsValidation(err))
}

func TestEventService_SetStatus_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewEventService(EventServiceOptions{Events: &mockEventRepo{
		setActiveFunc: func(context.Context, int64, bool) (bool, error) { return false, boom },
	}})
	require.ErrorIs(t, svc.SetStatus(context.Background(), 1, "active"), boom)
}
