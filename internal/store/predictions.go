package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sink records prediction activity for later analysis. Writes are
// best-effort; callers never block round resolution on them.
type Sink interface {
	RecordPrediction(ctx context.Context, username, prediction string) error
	RecordOutcome(ctx context.Context, username, actual string, isCorrect bool) error
	Close()
}

// Noop is the sink used when no database is configured.
type Noop struct{}

func (Noop) RecordPrediction(context.Context, string, string) error { return nil }

func (Noop) RecordOutcome(context.Context, string, string, bool) error { return nil }

func (Noop) Close() {}

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	username TEXT NOT NULL,
	prediction TEXT NOT NULL,
	actual_outcome TEXT,
	is_correct BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres persists predictions through a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Open connects to the database and makes sure the predictions table exists.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// RecordPrediction appends one row per submission, so overwritten picks keep
// their history.
func (p *Postgres) RecordPrediction(ctx context.Context, username, prediction string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO predictions (username, prediction) VALUES ($1, $2)`,
		username, prediction)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// RecordOutcome marks the participant's most recent prediction with the
// round's drawn outcome.
func (p *Postgres) RecordOutcome(ctx context.Context, username, actual string, isCorrect bool) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE predictions SET actual_outcome = $2, is_correct = $3
		 WHERE id = (SELECT id FROM predictions WHERE username = $1 ORDER BY created_at DESC LIMIT 1)`,
		username, actual, isCorrect)
	if err != nil {
		return fmt.Errorf("update outcome: %w", err)
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
