package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableAlerts     = "flood_alerts"
	tableRoutes     = "evacuation_routes"
	tableBroadcasts = "broadcasts"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// Ping checks the connection, for health reporting.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate creates the schema if it doesn't exist.
func (db *DB) Migrate(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS flood_alerts (
		seq          BIGSERIAL,
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		district     TEXT NOT NULL DEFAULT '',
		severity     TEXT NOT NULL,
		time_label   TEXT NOT NULL DEFAULT '',
		latitude     DOUBLE PRECISION,
		longitude    DOUBLE PRECISION,
		description  TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_flood_alerts_seq ON flood_alerts(seq);

	CREATE TABLE IF NOT EXISTS evacuation_routes (
		seq            BIGSERIAL,
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL,
		updated_label  TEXT NOT NULL DEFAULT '',
		start_lat      DOUBLE PRECISION,
		start_lng      DOUBLE PRECISION,
		end_lat        DOUBLE PRECISION,
		end_lng        DOUBLE PRECISION,
		district       TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_evacuation_routes_seq ON evacuation_routes(seq);

	CREATE TABLE IF NOT EXISTS broadcasts (
		id        UUID PRIMARY KEY,
		message   TEXT NOT NULL,
		district  TEXT NOT NULL DEFAULT '',
		sent_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_broadcasts_sent_at ON broadcasts(sent_at DESC);
	`
	_, err := db.Pool.Exec(ctx, sql)
	return err
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (db *DB) query(ctx context.Context, q squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return db.Pool.Query(ctx, sql, args...)
}

func (db *DB) exec(ctx context.Context, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	_, err = db.Pool.Exec(ctx, sql, args...)
	return err
}
