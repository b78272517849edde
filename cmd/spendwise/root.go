package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spendwise/internal/backend"
	"spendwise/internal/cli"
	"spendwise/internal/config"
	applog "spendwise/internal/log"
)

// app carries state shared by every subcommand.
type app struct {
	cfgFile string
	envFile string
	verbose bool

	cfg    *config.Config
	logger *applog.Logger
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spendwise",
		Short: "Personal income and expense tracker",
		Long: `spendwise records income and expense transactions and reports on them:
category breakdowns, daily totals, a spending calendar and monthly trends.

Run 'spendwise serve' for the JSON API, or use the subcommands directly.`,
		PersistentPreRunE: a.init,
		SilenceUsage:      true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (keys use the environment variable names)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at the configured level instead of warn")

	root.AddCommand(
		a.serveCmd(),
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.updateCmd(),
		a.removeCmd(),
		a.summaryCmd(),
		a.categoriesCmd(),
		a.dailyCmd(),
		a.calendarCmd(),
		a.monthlyCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := cli.LoadEnvFile(a.envFile); err != nil {
		return err
	}
	cfg, err := cli.LoadAndValidateConfig(a.cfgFile)
	if err != nil {
		return err
	}
	// One-shot commands keep stderr quiet.
	if cmd.Name() != "serve" && !a.verbose {
		cfg.LogLevel = "warn"
	}
	logger, err := cli.SetupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) open(ctx context.Context) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	bc.Now = a.now
	res, err := backend.NewFactory(a.logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bc.Type, err)
	}
	return res, nil
}

// withBackend opens the configured backend for the duration of fn.
func (a *app) withBackend(cmd *cobra.Command, fn func(*backend.BackendResult) error) (err error) {
	res, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			a.logger.Error("Failed to close backend", applog.FieldError, cerr)
			if err == nil {
				err = cerr
			}
		}
	}()
	return fn(res)
}
