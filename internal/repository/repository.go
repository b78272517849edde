// Package repository provides typed CRUD over the persisted transaction
// collection and the session record.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/storage"
)

// Repository holds the typed view of the transaction collection and writes
// every change through to the store. All mutations run in one critical
// section, so concurrent callers never interleave read-modify-write cycles.
//
// The collection is ordered newest-inserted first.
type Repository struct {
	mu       sync.RWMutex
	store    *storage.Store
	now      func() time.Time
	logger   *slog.Logger
	items    []core.Transaction
	index    map[int64]int
	maxID    int64
	revision uint64
}

type Option func(*Repository)

// WithClock sets the clock used to default missing dates.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger, which should already carry its component.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// Open loads the collection from store. A missing or unreadable collection
// yields an empty repository.
func Open(ctx context.Context, store *storage.Store, opts ...Option) (*Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("open repository: nil store")
	}
	r := &Repository{
		store:  store,
		now:    time.Now,
		logger: slog.Default().With(applog.FieldComponent, applog.ComponentRepository),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Reload(ctx)
	return r, nil
}

// Reload replaces the in-memory view with the store's current contents.
// The read and the swap share the write lock, so a concurrent mutation is
// either fully visible to the load or applied after it.
func (r *Repository) Reload(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []core.Transaction
	if !r.store.Load(ctx, storage.KeyTransactions, &items) {
		items = nil
	}
	r.commit(items)
	r.logger.DebugContext(ctx, "Transactions loaded", applog.FieldCount, len(items))
}

// GetAll returns a copy of the full collection in stored order.
func (r *Repository) GetAll() []core.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Transaction, len(r.items))
	copy(out, r.items)
	return out
}

// GetByID returns the first transaction with the given id.
func (r *Repository) GetByID(id int64) (core.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return core.Transaction{}, false
	}
	return r.items[i], true
}

// Add assigns the next id, defaults the date to today, prepends the record
// and persists the collection.
func (r *Repository) Add(ctx context.Context, in core.Input) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.Date == "" {
		in.Date = core.Today(r.now())
	}
	tx := in.Transaction(r.maxID + 1)

	next := make([]core.Transaction, 0, len(r.items)+1)
	next = append(next, tx)
	next = append(next, r.items...)
	if err := r.persist(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithTransaction(tx.ID, tx.Type.String(), tx.Category, tx.Amount.String(), tx.Date).
		ToSlice()...)
	return tx, nil
}

// Update merges patch over the record with the given id and persists the
// collection. It reports whether a record matched; a missing id is a no-op.
func (r *Repository) Update(ctx context.Context, id int64, patch core.Patch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[id]; !ok {
		return false, nil
	}

	next := make([]core.Transaction, len(r.items))
	for i, t := range r.items {
		if t.ID == id {
			t = patch.Apply(t)
		}
		next[i] = t
	}
	if err := r.persist(ctx, next); err != nil {
		return true, fmt.Errorf("update transaction %d: %w", id, err)
	}

	r.logger.InfoContext(ctx, "Transaction updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldTransactionID, id)
	return true, nil
}

// Remove deletes the record with the given id and persists the collection.
// It reports whether a record matched; a missing id is a no-op.
func (r *Repository) Remove(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[id]; !ok {
		return false, nil
	}

	next := make([]core.Transaction, 0, len(r.items)-1)
	for _, t := range r.items {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if err := r.persist(ctx, next); err != nil {
		return true, fmt.Errorf("remove transaction %d: %w", id, err)
	}

	r.logger.InfoContext(ctx, "Transaction removed",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldTransactionID, id)
	return true, nil
}

// GetExpenses returns the expense transactions in stored order.
func (r *Repository) GetExpenses() []core.Transaction {
	return core.FilterByType(r.GetAll(), core.Expense)
}

// GetIncome returns the income transactions in stored order.
func (r *Repository) GetIncome() []core.Transaction {
	return core.FilterByType(r.GetAll(), core.Income)
}

// Recent returns at most n of the newest transactions.
func (r *Repository) Recent(n int) []core.Transaction {
	all := r.GetAll()
	if n < 0 {
		n = 0
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// TotalFor sums the amounts of list.
func (r *Repository) TotalFor(list []core.Transaction) decimal.Decimal {
	return core.TotalFor(list)
}

// Revision increases on every successful mutation.
func (r *Repository) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Len returns the number of stored transactions.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// persist saves next and, only on success, makes it the current view.
// Callers hold r.mu.
func (r *Repository) persist(ctx context.Context, next []core.Transaction) error {
	if err := r.store.Save(ctx, storage.KeyTransactions, next); err != nil {
		return err
	}
	r.commit(next)
	return nil
}

func (r *Repository) commit(items []core.Transaction) {
	if items == nil {
		items = []core.Transaction{}
	}
	index := make(map[int64]int, len(items))
	var maxID int64
	for i, t := range items {
		if _, dup := index[t.ID]; !dup {
			index[t.ID] = i
		}
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	r.items = items
	r.index = index
	r.maxID = maxID
	r.revision++
}
