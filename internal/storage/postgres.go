package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/deusflow/mvnonews/internal/news"
)

// PostgresHistory stores reported articles in PostgreSQL.
type PostgresHistory struct {
	db       *sql.DB
	ttlHours int // 0 = keep forever
}

// CollectedArticle is one reported article row.
type CollectedArticle struct {
	Link        string
	Title       string
	Keyword     string
	CollectedAt time.Time
}

// NewPostgresHistory connects and creates the schema if needed.
func NewPostgresHistory(ctx context.Context, connectionString string, ttlHours int) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ph := &PostgresHistory{db: db, ttlHours: ttlHours}

	if err := ph.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("✅ PostgreSQL history connected")
	return ph, nil
}

func (ph *PostgresHistory) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS collected_articles (
		id SERIAL PRIMARY KEY,
		link TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		keyword VARCHAR(100) NOT NULL,
		pub_date TEXT,
		collected_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_collected_articles_collected_at ON collected_articles(collected_at);
	`

	if _, err := ph.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (ph *PostgresHistory) cutoff() time.Time {
	if ph.ttlHours <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-time.Duration(ph.ttlHours) * time.Hour)
}

func (ph *PostgresHistory) LoadSeenLinks(ctx context.Context) (map[string]struct{}, error) {
	rows, err := ph.db.QueryContext(ctx, `SELECT link FROM collected_articles WHERE collected_at > $1`, ph.cutoff())
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	defer rows.Close()

	links := make(map[string]struct{})
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links[link] = struct{}{}
	}
	return links, rows.Err()
}

// Record inserts every article of the digest in one transaction. A link
// that is already stored keeps its first keyword and gets a fresh
// collected_at.
func (ph *PostgresHistory) Record(ctx context.Context, d news.Digest) error {
	tx, err := ph.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO collected_articles (link, title, keyword, pub_date, collected_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (link) DO UPDATE SET collected_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, kg := range d.Keywords {
		for _, g := range kg.Groups {
			for _, a := range g {
				if _, err := stmt.ExecContext(ctx, a.Link, news.CleanTitle(a.Title), kg.Keyword, a.PubDate); err != nil {
					return fmt.Errorf("failed to record %s: %w", a.Link, err)
				}
			}
		}
	}

	return tx.Commit()
}

// Cleanup removes rows older than the TTL.
func (ph *PostgresHistory) Cleanup(ctx context.Context) error {
	if ph.ttlHours <= 0 {
		return nil
	}

	result, err := ph.db.ExecContext(ctx, `DELETE FROM collected_articles WHERE collected_at < $1`, ph.cutoff())
	if err != nil {
		return fmt.Errorf("failed to cleanup: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		log.Printf("🗑️ Cleaned up %d old records from database", rows)
	}
	return nil
}

// GetStats counts all stored links and those still inside the TTL.
func (ph *PostgresHistory) GetStats(ctx context.Context) (map[string]int, error) {
	var total, active int
	err := ph.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE collected_at > $1)
		FROM collected_articles
	`, ph.cutoff()).Scan(&total, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return map[string]int{
		"total_items":  total,
		"active_items": active,
	}, nil
}

// GetRecent returns the most recently collected articles.
func (ph *PostgresHistory) GetRecent(ctx context.Context, limit int) ([]CollectedArticle, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := ph.db.QueryContext(ctx, `
		SELECT link, title, keyword, collected_at
		FROM collected_articles
		ORDER BY collected_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CollectedArticle
	for rows.Next() {
		var item CollectedArticle
		if err := rows.Scan(&item.Link, &item.Title, &item.Keyword, &item.CollectedAt); err != nil {
			log.Printf("⚠️ Error scanning row: %v", err)
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (ph *PostgresHistory) Close() error {
	if ph.db != nil {
		return ph.db.Close()
	}
	return nil
}
