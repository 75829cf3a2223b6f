// Package store persists game snapshots between actions.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game"
)

// ErrNotFound is returned when no snapshot exists for a game id.
var ErrNotFound = errors.New("game not found")

// Store keeps the latest snapshot of each game.
type Store interface {
	Save(ctx context.Context, state *game.SavedState) error
	Load(ctx context.Context, id string) (*game.SavedState, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config selects and configures a store driver.
type Config struct {
	Driver       string `mapstructure:"driver"`
	RedisAddress string `mapstructure:"redis_address"`
	RedisPrefix  string `mapstructure:"redis_prefix"`
	PostgresDSN  string `mapstructure:"postgres_dsn"`
}

// Open creates the configured store.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(ctx, cfg.RedisAddress, cfg.RedisPrefix, logger)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
