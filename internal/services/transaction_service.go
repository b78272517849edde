package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/repository"
)

// Publisher sends change events. *amqp.Client implements it.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// TransactionService writes through the repository and announces every
// committed change on the publisher.
type TransactionService struct {
	repo      *repository.Repository
	publisher Publisher
	now       func() time.Time
}

// NewTransactionService creates the service. publisher may be nil.
func NewTransactionService(repo *repository.Repository, publisher Publisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher, now: time.Now}
}

func (s *TransactionService) Repository() *repository.Repository {
	return s.repo
}

// Add stores a new transaction and publishes an add event.
func (s *TransactionService) Add(ctx context.Context, in core.Input) (core.Transaction, error) {
	t, err := s.repo.Add(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.publish(ctx, amqp.OpAdd, t.ID)
	return t, nil
}

// Update merges patch into transaction id. Unknown ids and empty patches are
// a silent no-op and publish nothing.
func (s *TransactionService) Update(ctx context.Context, id int64, patch core.Patch) (bool, error) {
	if patch.IsEmpty() {
		_, found := s.repo.GetByID(id)
		return found, nil
	}
	found, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	if found {
		s.publish(ctx, amqp.OpUpdate, id)
	}
	return found, nil
}

// Remove deletes transaction id. Unknown ids are a silent no-op.
func (s *TransactionService) Remove(ctx context.Context, id int64) (bool, error) {
	found, err := s.repo.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("remove transaction: %w", err)
	}
	if found {
		s.publish(ctx, amqp.OpRemove, id)
	}
	return found, nil
}

func (s *TransactionService) publish(ctx context.Context, op amqp.Op, id int64) {
	if s.publisher == nil {
		return
	}
	ev := amqp.NewTransactionEvent(op, id, s.repo.Revision(), s.now())
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		// The write is already committed.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			applog.FieldTransactionID, id,
			applog.FieldOperation, op,
			applog.FieldError, err)
	}
}
