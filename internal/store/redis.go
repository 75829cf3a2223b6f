package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game"
)

// DefaultRedisPrefix namespaces every key the Redis store writes.
const DefaultRedisPrefix = "monopoly"

// Redis stores gob snapshots under <prefix>:game:<id> and tracks ids in the
// <prefix>:games set.
type Redis struct {
	pool   *redis.Pool
	prefix string
	logger *zap.Logger
}

// NewRedis dials address through a pool and checks the connection with PING.
func NewRedis(ctx context.Context, address, prefix string, logger *zap.Logger) (*Redis, error) {
	if address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", address)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	r := &Redis{pool: pool, prefix: prefix, logger: logger}

	conn, err := pool.GetContext(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("redis store initialized", zap.String("address", address), zap.String("prefix", prefix))
	return r, nil
}

func (r *Redis) key(id string) string { return r.prefix + ":game:" + id }

func (r *Redis) indexKey() string { return r.prefix + ":games" }

func (r *Redis) Save(ctx context.Context, state *game.SavedState) error {
	data, err := state.SerializeToBytes()
	if err != nil {
		return err
	}
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	if err := conn.Send("MULTI"); err != nil {
		return err
	}
	if err := conn.Send("SET", r.key(state.ID), data); err != nil {
		return err
	}
	if err := conn.Send("SADD", r.indexKey(), state.ID); err != nil {
		return err
	}
	if _, err := conn.Do("EXEC"); err != nil {
		return fmt.Errorf("failed to save game %s: %w", state.ID, err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id string) (*game.SavedState, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", r.key(id)))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return game.DeserializeFromBytes(data)
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	n, err := redis.Int(conn.Do("DEL", r.key(id)))
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if _, err := conn.Do("SREM", r.indexKey(), id); err != nil {
		r.logger.Warn("failed to remove game from index", zap.String("game_id", id), zap.Error(err))
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("SMEMBERS", r.indexKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Redis) Close() error {
	return r.pool.Close()
}
