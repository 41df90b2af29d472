package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// NewPostgres creates a PostgreSQL database connection and ensures the
// schema exists.
func NewPostgres(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	d := &Database{db: db}

	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

// initSchema creates all tables and indexes
func (d *Database) initSchema() error {
	schema := `
	-- Registered users and their subscription state
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		subscription_status TEXT NOT NULL DEFAULT 'free',
		stripe_customer_id TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Candidate micro-SaaS ideas, one owner each
	CREATE TABLE IF NOT EXISTS ideas (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		problem_category TEXT NOT NULL DEFAULT '',
		validation_stage TEXT NOT NULL DEFAULT 'initial',
		revenue_potential INTEGER NOT NULL DEFAULT 0,
		target_users INTEGER NOT NULL DEFAULT 0,
		monetization_json TEXT,
		acquisition_json TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	-- Pain points recorded against an idea; replaced as a set, never edited
	CREATE TABLE IF NOT EXISTS pain_points (
		id TEXT PRIMARY KEY,
		idea_id TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		impact_score INTEGER NOT NULL DEFAULT 0,
		willingness_to_pay INTEGER NOT NULL DEFAULT 0,
		frequency_score INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE
	);

	-- Validation evidence; append-only
	CREATE TABLE IF NOT EXISTS validation_signals (
		id TEXT PRIMARY KEY,
		idea_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		result_json TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_ideas_user_id ON ideas(user_id);
	CREATE INDEX IF NOT EXISTS idx_ideas_validation_stage ON ideas(validation_stage);
	CREATE INDEX IF NOT EXISTS idx_ideas_created_at ON ideas(created_at);
	CREATE INDEX IF NOT EXISTS idx_pain_points_idea_id ON pain_points(idea_id);
	CREATE INDEX IF NOT EXISTS idx_signals_idea_id ON validation_signals(idea_id);
	CREATE INDEX IF NOT EXISTS idx_signals_created_at ON validation_signals(created_at);
	CREATE INDEX IF NOT EXISTS idx_profiles_stripe_customer ON profiles(stripe_customer_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
