package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"spendwise/internal/amqp"
	applog "spendwise/internal/log"
)

// Consumer delivers change events. *amqp.Client implements it.
type Consumer interface {
	ConsumeTransactionEvents(ctx context.Context, handler func(context.Context, *amqp.TransactionEvent) error) error
}

// Reloader refreshes an in-memory view from its store.
type Reloader interface {
	Reload(ctx context.Context)
}

// ReloadProcessor refreshes the repository whenever another process
// announces a write, so a running server sees changes made by the CLI.
type ReloadProcessor struct {
	consumer Consumer
	target   Reloader

	mu      sync.Mutex
	running bool
	handled int
}

func NewReloadProcessor(consumer Consumer, target Reloader) *ReloadProcessor {
	return &ReloadProcessor{consumer: consumer, target: target}
}

// Run consumes events until ctx is done. Returns an error if already running.
func (p *ReloadProcessor) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("reload processor is already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	slog.InfoContext(ctx, "Reload processor started")
	err := p.consumer.ConsumeTransactionEvents(ctx, p.handle)
	if errors.Is(err, context.Canceled) {
		slog.InfoContext(ctx, "Reload processor stopped")
		return nil
	}
	return err
}

func (p *ReloadProcessor) handle(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.DebugContext(ctx, "Reloading after transaction event",
		applog.FieldTransactionID, ev.TransactionID,
		applog.FieldOperation, ev.Op)
	p.target.Reload(ctx)

	p.mu.Lock()
	p.handled++
	p.mu.Unlock()
	return nil
}

func (p *ReloadProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Handled returns how many events triggered a reload.
func (p *ReloadProcessor) Handled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handled
}
