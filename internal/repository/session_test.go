package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/storage"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSessions(storage.NewStore(storage.NewMemoryBackend(), nil))

	assert.Nil(t, s.GetUser(ctx))

	require.NoError(t, s.SetUser(ctx, "alice"))
	u := s.GetUser(ctx)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Name)

	require.NoError(t, s.SetUser(ctx, "bob"))
	assert.Equal(t, "bob", s.GetUser(ctx).Name)

	require.NoError(t, s.ClearUser(ctx))
	assert.Nil(t, s.GetUser(ctx))
	assert.NoError(t, s.ClearUser(ctx))
}
