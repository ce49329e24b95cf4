// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// NewWithDB wraps an existing connection without pinging or migrating.
// Intended for tests.
func NewWithDB(s *sql.DB) *DB {
	return &DB{sql: s}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS health_samples (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL,
			heart_rate INTEGER,
			bp_systolic INTEGER,
			bp_diastolic INTEGER,
			sleep_hours DOUBLE PRECISION,
			sleep_quality INTEGER,
			steps INTEGER,
			activity_level INTEGER,
			mood TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			is_manual_entry BOOLEAN NOT NULL DEFAULT TRUE,
			data_source TEXT NOT NULL DEFAULT 'manual' CHECK(data_source IN ('manual','simulation','device')),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_health_samples_user_ts ON health_samples(user_id, ts);",
		`CREATE TABLE IF NOT EXISTS alerts (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			alert_type TEXT NOT NULL CHECK(alert_type IN ('info','warning','alert')),
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			metric TEXT NOT NULL DEFAULT '',
			value TEXT NOT NULL DEFAULT '',
			threshold_data TEXT NOT NULL DEFAULT '',
			is_dismissed BOOLEAN NOT NULL DEFAULT FALSE,
			is_acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			dismissed_at TIMESTAMPTZ,
			acknowledged_at TIMESTAMPTZ
		);`,
		"CREATE INDEX IF NOT EXISTS idx_alerts_user_created_at ON alerts(user_id, created_at);",
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			user_type TEXT NOT NULL DEFAULT 'parent' CHECK(user_type IN ('caregiver','parent')),
			monitored_user_id TEXT NOT NULL DEFAULT '',
			alert_thresholds TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			last_login TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS question_responses (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			question_text TEXT NOT NULL,
			response TEXT NOT NULL,
			asked_at TIMESTAMPTZ NOT NULL,
			responded_at TIMESTAMPTZ
		);`,
		"CREATE INDEX IF NOT EXISTS idx_question_responses_user_asked ON question_responses(user_id, asked_at);",
		`CREATE TABLE IF NOT EXISTS reminders (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low','medium','high')),
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','completed')),
			reminder_type TEXT NOT NULL DEFAULT 'event' CHECK(reminder_type IN ('daily','event')),
			start_date TEXT NOT NULL DEFAULT '',
			last_completed_date TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			created_by TEXT NOT NULL DEFAULT ''
		);`,
		"CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id);",
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			account_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			user_agent TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
