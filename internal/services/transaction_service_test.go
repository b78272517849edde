package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/repository"
	"spendwise/internal/storage"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEvent
	err    error
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, ev *amqp.TransactionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func newService(t *testing.T, pub Publisher) *TransactionService {
	t.Helper()
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryBackend(), nil)
	require.NoError(t, store.Initialize(ctx, storage.DemoTransactions()))
	repo, err := repository.Open(ctx, store)
	require.NoError(t, err)
	return NewTransactionService(repo, pub)
}

func coffee() core.Input {
	return core.Input{
		Title:    "Coffee",
		Amount:   decimal.RequireFromString("3.5"),
		Type:     core.Expense,
		Category: core.CategoryFood,
		Date:     "2026-02-10",
	}
}

func TestServicePublishesCommittedWrites(t *testing.T) {
	pub := &fakePublisher{}
	svc := newService(t, pub)
	ctx := context.Background()

	tx, err := svc.Add(ctx, coffee())
	require.NoError(t, err)
	assert.Equal(t, int64(13), tx.ID)

	title := "Espresso"
	found, err := svc.Update(ctx, tx.ID, core.Patch{Title: &title})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.Remove(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, found)

	require.Len(t, pub.events, 3)
	assert.Equal(t, amqp.OpAdd, pub.events[0].Op)
	assert.Equal(t, amqp.OpUpdate, pub.events[1].Op)
	assert.Equal(t, amqp.OpRemove, pub.events[2].Op)
	for _, ev := range pub.events {
		assert.Equal(t, tx.ID, ev.TransactionID)
	}
	assert.Less(t, pub.events[0].Revision, pub.events[2].Revision)
}

func TestServiceSkipsEventsForMissingIDs(t *testing.T) {
	pub := &fakePublisher{}
	svc := newService(t, pub)

	found, err := svc.Remove(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, pub.events)
}

func TestServiceIgnoresPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newService(t, pub)

	_, err := svc.Add(context.Background(), coffee())
	require.NoError(t, err)
	assert.Equal(t, 13, svc.Repository().Len())
}

func TestServiceWithoutPublisher(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.Add(context.Background(), coffee())
	assert.NoError(t, err)
}

type fakeConsumer struct {
	events []*amqp.TransactionEvent
}

func (f *fakeConsumer) ConsumeTransactionEvents(ctx context.Context, handler func(context.Context, *amqp.TransactionEvent) error) error {
	for _, ev := range f.events {
		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

type countingReloader struct {
	mu    sync.Mutex
	count int
}

func (c *countingReloader) Reload(context.Context) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func TestReloadProcessorReloadsPerEvent(t *testing.T) {
	now := time.Now()
	consumer := &fakeConsumer{events: []*amqp.TransactionEvent{
		amqp.NewTransactionEvent(amqp.OpAdd, 1, 1, now),
		amqp.NewTransactionEvent(amqp.OpRemove, 1, 2, now),
	}}
	target := &countingReloader{}
	p := NewReloadProcessor(consumer, target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return p.Handled() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.IsRunning())
	assert.Error(t, p.Run(ctx))

	cancel()
	assert.NoError(t, <-done)
	assert.False(t, p.IsRunning())
	assert.Equal(t, 2, target.count)
}

func TestReloadProcessorRefreshesRepository(t *testing.T) {
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryBackend(), nil)
	require.NoError(t, store.Initialize(ctx, storage.DemoTransactions()))
	server, err := repository.Open(ctx, store)
	require.NoError(t, err)
	writer, err := repository.Open(ctx, store)
	require.NoError(t, err)

	_, err = writer.Add(ctx, coffee())
	require.NoError(t, err)
	assert.Equal(t, 12, server.Len())

	p := NewReloadProcessor(nil, server)
	require.NoError(t, p.handle(ctx, amqp.NewTransactionEvent(amqp.OpAdd, 13, 1, time.Now())))
	assert.Equal(t, 13, server.Len())
}

func TestServiceEmptyUpdateIsNoOp(t *testing.T) {
	pub := &fakePublisher{}
	svc := newService(t, pub)
	rev := svc.Repository().Revision()

	found, err := svc.Update(context.Background(), 3, core.Patch{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rev, svc.Repository().Revision())
	assert.Empty(t, pub.events)
}
