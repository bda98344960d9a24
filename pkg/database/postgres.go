package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/sma-timetable/pkg/config"
)

// schema holds the tables used to persist resolved rosters. Every reload
// writes a new snapshot row and its students, subjects and timetable cells.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS roster_snapshots (
		id UUID PRIMARY KEY,
		grade INT NOT NULL,
		student_count INT NOT NULL,
		source_digest TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS roster_students (
		snapshot_id UUID NOT NULL REFERENCES roster_snapshots(id) ON DELETE CASCADE,
		student_id INT NOT NULL,
		name TEXT NOT NULL,
		credit_hours INT NOT NULL,
		PRIMARY KEY (snapshot_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS roster_cells (
		snapshot_id UUID NOT NULL REFERENCES roster_snapshots(id) ON DELETE CASCADE,
		student_id INT NOT NULL,
		day SMALLINT NOT NULL,
		period SMALLINT NOT NULL,
		subject TEXT NOT NULL,
		section INT NOT NULL,
		credit_hours INT NOT NULL,
		teacher TEXT NOT NULL,
		classroom TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, student_id, day, period)
	)`,
}

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the roster tables when they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate roster schema: %w", err)
		}
	}
	return nil
}
