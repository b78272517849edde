package repository

import (
	"context"
	"fmt"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// Sessions manages the single display-only user record.
type Sessions struct {
	store *storage.Store
}

func NewSessions(store *storage.Store) *Sessions {
	return &Sessions{store: store}
}

// SetUser records name as the current session, replacing any previous one.
func (s *Sessions) SetUser(ctx context.Context, name string) error {
	if err := s.store.Save(ctx, storage.KeyUser, core.User{Name: name}); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// GetUser returns the current session, or nil when logged out.
func (s *Sessions) GetUser(ctx context.Context) *core.User {
	var u core.User
	if !s.store.Load(ctx, storage.KeyUser, &u) {
		return nil
	}
	return &u
}

// ClearUser ends the session. Clearing an absent session is a no-op.
func (s *Sessions) ClearUser(ctx context.Context) error {
	if err := s.store.Remove(ctx, storage.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}
