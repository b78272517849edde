package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
)

// Store persists JSON records on top of a Backend. Reads fail soft: any
// problem loading a record is reported as absence so callers can re-seed.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore wraps backend. logger is used as given and is expected to carry
// its component already; nil falls back to the default logger.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default().With(applog.FieldComponent, applog.ComponentStorage)
	}
	return &Store{backend: backend, logger: logger}
}

// Load decodes the record stored under key into v and reports whether it
// was present and readable. A JSON null counts as absent.
func (s *Store) Load(ctx context.Context, key string, v any) bool {
	raw, ok := s.read(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.WarnContext(ctx, "Stored record unreadable, treating as absent",
			applog.FieldKey, key, applog.FieldError, err)
		return false
	}
	return true
}

// Save replaces the record under key with the JSON encoding of v.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Record saved", applog.FieldKey, key, "bytes", len(b))
	return nil
}

// Remove deletes the record under key. Removing a missing record is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Initialize seeds the transaction collection when it is absent. It is
// idempotent: once a readable collection exists it does nothing.
//
// A collection that exists but cannot be decoded is treated as absent. Its
// bytes are copied to "transactions.corrupt" before the seed replaces them.
func (s *Store) Initialize(ctx context.Context, seed []core.Transaction) error {
	raw, present := s.read(ctx, KeyTransactions)
	if present {
		var existing []core.Transaction
		err := json.Unmarshal(raw, &existing)
		if err == nil && existing != nil {
			return nil
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Transaction collection corrupt, re-seeding",
				applog.FieldError, err, "backup_key", KeyTransactions+corruptSuffix)
			if err := s.backend.Put(ctx, KeyTransactions+corruptSuffix, raw); err != nil {
				return fmt.Errorf("back up corrupt collection: %w", err)
			}
		}
	}

	if seed == nil {
		seed = []core.Transaction{}
	}
	if err := s.Save(ctx, KeyTransactions, seed); err != nil {
		return fmt.Errorf("seed transactions: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction collection seeded", applog.FieldCount, len(seed), applog.FieldOperation, applog.OpSeed)
	return nil
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "Storage read failed, treating as absent",
			applog.FieldKey, key, applog.FieldError, err)
		return nil, false
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}
