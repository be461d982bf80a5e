package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deusflow/mvnonews/internal/app"
	"github.com/deusflow/mvnonews/internal/config"
	"github.com/deusflow/mvnonews/internal/logger"
	"github.com/deusflow/mvnonews/internal/news"
	"github.com/deusflow/mvnonews/internal/storage"
)

func historyCmd() *cobra.Command {
	var (
		cleanup bool
		recent  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Check the history backend and show what it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Debug)

			h, err := app.OpenHistory(ctx, cfg)
			if err != nil {
				return fmt.Errorf("❌ failed to open %s history: %w", cfg.HistoryBackend, err)
			}
			defer h.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Connected to %s history\n", cfg.HistoryBackend)

			links, err := h.LoadSeenLinks(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "📊 Known links: %d\n", len(links))

			pg, ok := h.(*storage.PostgresHistory)
			if !ok {
				return nil
			}

			if cleanup {
				if err := pg.Cleanup(ctx); err != nil {
					return err
				}
			}

			if stats, err := pg.GetStats(ctx); err != nil {
				logger.Warn("Failed to get stats", "error", err)
			} else {
				fmt.Fprintf(out, "  Total items: %d\n  Active items: %d\n", stats["total_items"], stats["active_items"])
			}

			items, err := pg.GetRecent(ctx, recent)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n📰 Recent articles (last %d):\n", recent)
			if len(items) == 0 {
				fmt.Fprintln(out, "  (nothing collected yet)")
			}
			for i, item := range items {
				fmt.Fprintf(out, "  %d. %s\n", i+1, item.Title)
				fmt.Fprintf(out, "     Keyword: %s | Collected: %s\n", item.Keyword, item.CollectedAt.In(news.KST).Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "delete rows older than HISTORY_TTL_HOURS (postgres only)")
	cmd.Flags().IntVar(&recent, "recent", 5, "number of recent articles to list (postgres only)")
	return cmd
}
