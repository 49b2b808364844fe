package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_StartProcessing(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	ok, err := svc.StartProcessing(ctx, 4, 40)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.StartProcessing(ctx, 4, 40)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.Cancel(ctx, 4, 40)
	require.NoError(t, err)
	ok, err = svc.StartProcessing(ctx, 4, 40)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUserService_CompleteCheck(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.SetState(ctx, 3, 30, entity.StateProcessing)
	require.NoError(t, err)

	user, err := svc.CompleteCheck(ctx, 3, 30, entity.LabelDirty)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 1, user.Checks)

	stored, err := svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.LabelDirty, stored.LastLabel)
}
