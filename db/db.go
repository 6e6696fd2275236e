package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

func Connect(dsn string, timeout time.Duration, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("failed to close database handle after ping error", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tournaments (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	status          TEXT NOT NULL,
	champion_id     TEXT,
	runner_up_id    TEXT,
	third_place_id  TEXT,
	fourth_place_id TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
	id            TEXT PRIMARY KEY,
	tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	region        TEXT NOT NULL DEFAULT '',
	stage         TEXT NOT NULL,
	team_ids      TEXT[] NOT NULL,
	draw_complete BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS matches (
	id             TEXT PRIMARY KEY,
	tournament_id  TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
	group_id       TEXT REFERENCES groups(id) ON DELETE CASCADE,
	stage          TEXT NOT NULL,
	matchday       INT NOT NULL DEFAULT 0,
	round          TEXT,
	position       INT,
	home_team_id   TEXT NOT NULL,
	away_team_id   TEXT NOT NULL,
	home_score     INT,
	away_score     INT,
	home_penalties INT,
	away_penalties INT,
	winner_id      TEXT,
	played         BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS standings (
	group_id        TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	team_id         TEXT NOT NULL,
	played          INT NOT NULL,
	won             INT NOT NULL,
	drawn           INT NOT NULL,
	lost            INT NOT NULL,
	goals_for       INT NOT NULL,
	goals_against   INT NOT NULL,
	goal_difference INT NOT NULL,
	points          INT NOT NULL,
	rank            INT NOT NULL,
	PRIMARY KEY (group_id, team_id)
);
`

// EnsureSchema creates the reporting tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
