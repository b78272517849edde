package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/backend"
	"spendwise/internal/cache"
	"spendwise/internal/cli"
	apphttp "spendwise/internal/http"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/services"
)

const shutdownTimeout = 30 * time.Second

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the transaction and analytics API on PORT.

When AMQP_URL is set, writes are announced on the broker and events from
other processes reload the in-memory view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				return a.serve(ctx, res)
			})
		},
	}
}

func (a *app) serve(ctx context.Context, res *backend.BackendResult) error {
	var workers []func(context.Context) error

	var limiter *ratelimit.Limiter
	if a.cfg.RateLimitEnabled() {
		limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: a.cfg.RateLimitPerMinute})
		workers = append(workers, func(ctx context.Context) error {
			return limiter.Run(ctx, 5*time.Minute)
		})
	}

	srv := apphttp.NewServer(a.cfg.Addr(), apphttp.Deps{
		Service:     res.Service,
		Sessions:    res.Sessions,
		Analytics:   res.Analytics,
		Logger:      a.logger,
		RateLimiter: limiter,
	})

	if res.Cache != nil {
		manager := cache.NewManager(a.logger.WithComponent(applog.ComponentCache).Slog())
		manager.Register(res.Cache)
		workers = append(workers, func(ctx context.Context) error {
			return manager.Run(ctx, a.cfg.CacheTTL)
		})
	}
	if res.AMQP != nil {
		processor := services.NewReloadProcessor(res.AMQP, res.Repo)
		workers = append(workers, processor.Run)
	}

	a.logger.Info("Starting spendwise server",
		"port", a.cfg.Port,
		applog.FieldBackend, a.cfg.DataBackend,
		applog.FieldOperation, applog.OpStartup)
	err := cli.Serve(ctx, a.logger.Slog(), srv, shutdownTimeout, workers...)
	if err == nil {
		a.logger.Info("Server stopped gracefully")
	}
	return err
}
