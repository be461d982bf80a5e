package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/deusflow/mvnonews/internal/app"
	"github.com/deusflow/mvnonews/internal/logger"
	"github.com/deusflow/mvnonews/internal/metrics"
	"github.com/deusflow/mvnonews/internal/news"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run collect and daily on their cron schedules (KST)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var srv *http.Server
			if cfg.EnableMonitoring {
				srv = startMonitoringServer(cfg.MonitoringPort)
			}

			c, err := newScheduler(ctx, a, cfg.CollectSchedule, cfg.DailySchedule)
			if err != nil {
				return err
			}
			c.Start()
			logger.Info("Scheduler started", "collect", cfg.CollectSchedule, "daily", cfg.DailySchedule)

			<-ctx.Done()
			logger.Info("Shutting down")

			<-c.Stop().Done()
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}
			return nil
		},
	}
}

// newScheduler registers both jobs. Runs never overlap: a job that fires
// while another is running waits for it.
func newScheduler(ctx context.Context, a *app.App, collectSpec, dailySpec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(news.KST))
	var mu sync.Mutex

	if _, err := c.AddFunc(collectSpec, func() {
		mu.Lock()
		defer mu.Unlock()
		logger.Info("Cron triggered", "job", "collect")
		_, _ = a.RunRolling(ctx)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(dailySpec, func() {
		mu.Lock()
		defer mu.Unlock()
		logger.Info("Cron triggered", "job", "daily")
		_, _ = a.RunDaily(ctx, a.Yesterday())
	}); err != nil {
		return nil, err
	}

	return c, nil
}

func startMonitoringServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)

	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logger.Info("Starting monitoring server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Monitoring server error", "error", err)
		}
	}()
	return srv
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	code := http.StatusOK
	if !metrics.Global.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":     status,
		"last_mode":  stats["last_mode"],
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
