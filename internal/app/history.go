package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/mvnonews/internal/config"
	"github.com/deusflow/mvnonews/internal/storage"
)

// OpenHistory connects the history backend named in cfg.
func OpenHistory(ctx context.Context, cfg *config.Config) (storage.History, error) {
	switch cfg.HistoryBackend {
	case "postgres":
		return storage.NewPostgresHistory(ctx, cfg.DatabaseURL, cfg.HistoryTTLHours)
	case "redis":
		return storage.NewRedisHistory(ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Key:      cfg.RedisKey,
			TTL:      time.Duration(cfg.HistoryTTLHours) * time.Hour,
		})
	case "file", "":
		return storage.NewFileHistory(cfg.DataDir), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownHistory, cfg.HistoryBackend)
	}
}
