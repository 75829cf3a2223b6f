package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	phase      TEXT NOT NULL,
	turn       INTEGER NOT NULL,
	winner     TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres stores snapshots as JSONB rows in the games table.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres connects to dsn and creates the games table if needed.
func NewPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	stats := pool.Stat()
	logger.Info("postgres store initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()),
	)
	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) Save(ctx context.Context, state *game.SavedState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode game %s: %w", state.ID, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO games (id, phase, turn, winner, checksum, state, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			phase = EXCLUDED.phase,
			turn = EXCLUDED.turn,
			winner = EXCLUDED.winner,
			checksum = EXCLUDED.checksum,
			state = EXCLUDED.state,
			updated_at = now()
	`, state.ID, state.Phase.String(), state.Turn, state.Winner, state.Checksum, data)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", state.ID, err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, id string) (*game.SavedState, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT state FROM games WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	var state game.SavedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", id, err)
	}
	return &state, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return ids, nil
}

// Summary is one row of the finished-games report.
type Summary struct {
	ID     string
	Phase  string
	Turn   int
	Winner string
}

// Summaries returns the indexed columns of every stored game.
func (p *Postgres) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, phase, turn, winner FROM games ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Summary, error) {
		var s Summary
		err := row.Scan(&s.ID, &s.Phase, &s.Turn, &s.Winner)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read games: %w", err)
	}
	return out, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
