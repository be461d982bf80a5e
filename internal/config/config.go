// Package config loads run settings from the environment and the keyword
// list from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoKeywords         = errors.New("at least one keyword is required")
	ErrInvalidThreshold   = errors.New("SIMILARITY_THRESHOLD must be within [0, 1]")
	ErrInvalidHours       = errors.New("SEARCH_HOURS must be at least 1")
	ErrInvalidCount       = errors.New("NEWS_COUNT and DAILY_SUMMARY_COUNT must be within [1, 100]")
	ErrMissingNaverKeys   = errors.New("NAVER_CLIENT_ID and NAVER_CLIENT_SECRET are required for the naver provider")
	ErrUnknownProvider    = errors.New("SEARCH_PROVIDER must be 'naver' or 'rss'")
	ErrUnknownHistory     = errors.New("HISTORY_BACKEND must be 'file', 'postgres' or 'redis'")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres history backend")
)

type Config struct {
	// Keywords in priority order: an article found under several keywords
	// is kept under the first.
	Keywords     []string
	KeywordsFile string

	// Search settings
	SearchProvider      string // "naver" or "rss"
	NaverClientID       string
	NaverClientSecret   string
	NaverDailyQuota     int
	SearchHours         int
	NewsCount           int // per-keyword cap in rolling mode
	DailySummaryCount   int // results requested per keyword in daily mode
	SimilarityThreshold float64
	FetchConcurrency    int

	// Output settings
	DataDir        string
	ReportsDir     string
	EnrichPreviews bool

	// History settings
	HistoryBackend  string // "file", "postgres" or "redis"
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisKey        string
	HistoryTTLHours int // 0 keeps history forever

	// Telegram settings
	TelegramToken  string
	TelegramChatID string

	// Schedules for the serve command
	CollectSchedule string
	DailySchedule   string

	// App settings
	Debug            bool
	RequestTimeout   time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableMonitoring bool
	MonitoringPort   string
}

// KeywordsConfig is the YAML keyword file:
//
//	keywords:
//	  - 알뜰폰
//	  - MVNO
type KeywordsConfig struct {
	Keywords []string `yaml:"keywords"`
}

// Load reads .env (if present), the environment and the keyword file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		KeywordsFile:        getEnvOrDefault("KEYWORDS_FILE", "configs/keywords.yaml"),
		SearchProvider:      getEnvOrDefault("SEARCH_PROVIDER", "naver"),
		NaverClientID:       os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret:   os.Getenv("NAVER_CLIENT_SECRET"),
		NaverDailyQuota:     getEnvIntOrDefault("NAVER_DAILY_QUOTA", 25000),
		SearchHours:         getEnvIntOrDefault("SEARCH_HOURS", 3),
		NewsCount:           getEnvIntOrDefault("NEWS_COUNT", 10),
		DailySummaryCount:   getEnvIntOrDefault("DAILY_SUMMARY_COUNT", 50),
		SimilarityThreshold: getEnvFloatOrDefault("SIMILARITY_THRESHOLD", 0.60),
		FetchConcurrency:    getEnvIntOrDefault("FETCH_CONCURRENCY", 4),
		DataDir:             getEnvOrDefault("DATA_DIR", "data"),
		ReportsDir:          getEnvOrDefault("REPORTS_DIR", "reports"),
		EnrichPreviews:      os.Getenv("ENRICH_PREVIEWS") == "true",
		HistoryBackend:      getEnvOrDefault("HISTORY_BACKEND", "file"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisAddr:           getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASS"),
		RedisKey:            getEnvOrDefault("REDIS_KEY", "mvno_news:links"),
		HistoryTTLHours:     getEnvIntOrDefault("HISTORY_TTL_HOURS", 0),
		TelegramToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:      os.Getenv("TELEGRAM_CHAT_ID_NEWS"),
		CollectSchedule:     getEnvOrDefault("COLLECT_SCHEDULE", "0 */3 * * *"),
		DailySchedule:       getEnvOrDefault("DAILY_SCHEDULE", "10 0 * * *"),
		Debug:               os.Getenv("DEBUG") == "true",
		RequestTimeout:      time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		RetryAttempts:       getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:          time.Duration(getEnvIntOrDefault("RETRY_DELAY_SECONDS", 2)) * time.Second,
		EnableMonitoring:    os.Getenv("ENABLE_HTTP_MONITORING") == "true",
		MonitoringPort:      getEnvOrDefault("MONITORING_PORT", "8080"),
	}

	if kw := os.Getenv("KEYWORDS"); kw != "" {
		cfg.Keywords = splitKeywords(kw)
	} else {
		keywords, err := LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		cfg.Keywords = keywords
	}

	return cfg, cfg.Validate()
}

// LoadKeywords reads the keyword list from a YAML file, dropping blanks
// and repeats while keeping order.
func LoadKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()

	var kc KeywordsConfig
	if err := yaml.NewDecoder(f).Decode(&kc); err != nil {
		return nil, fmt.Errorf("decode keywords file %s: %w", path, err)
	}
	return dedupeKeywords(kc.Keywords), nil
}

func splitKeywords(s string) []string {
	return dedupeKeywords(strings.Split(s, ","))
}

func dedupeKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return ErrInvalidThreshold
	}
	if c.SearchHours < 1 {
		return ErrInvalidHours
	}
	if c.NewsCount < 1 || c.NewsCount > 100 || c.DailySummaryCount < 1 || c.DailySummaryCount > 100 {
		return ErrInvalidCount
	}
	switch c.SearchProvider {
	case "naver":
		if c.NaverClientID == "" || c.NaverClientSecret == "" {
			return ErrMissingNaverKeys
		}
	case "rss":
	default:
		return ErrUnknownProvider
	}
	switch c.HistoryBackend {
	case "file", "redis":
	case "postgres":
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ErrUnknownHistory
	}
	if c.FetchConcurrency < 1 {
		c.FetchConcurrency = 1
	}
	return nil
}

// TelegramEnabled reports whether a summary can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
