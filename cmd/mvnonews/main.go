package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/mvnonews/internal/app"
	"github.com/deusflow/mvnonews/internal/config"
	"github.com/deusflow/mvnonews/internal/logger"
	"github.com/deusflow/mvnonews/internal/news"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mvnonews",
		Short:        "Collect, deduplicate and report MVNO news",
		SilenceUsage: true,
	}

	root.AddCommand(collectCmd(), dailyCmd(), serveCmd(), historyCmd())
	return root
}

// setup loads config, installs the logger and builds the app.
func setup(ctx context.Context) (*config.Config, *app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return nil, nil, err
	}
	logger.Init(cfg.Debug)

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		return nil, nil, err
	}
	return cfg, a, nil
}

func collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Collect news from the last SEARCH_HOURS hours that were not reported yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.RunRolling(cmd.Context())
			return err
		},
	}
}

func dailyCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Summarize one calendar day (KST), yesterday by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			day := a.Yesterday()
			if date != "" {
				parsed, err := time.ParseInLocation("2006-01-02", date, news.KST)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", date, err)
				}
				day = news.FixedCalendarDay{Day: parsed}
			}

			_, err = a.RunDaily(cmd.Context(), day)
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "report date as YYYY-MM-DD (default: yesterday in KST)")
	return cmd
}
