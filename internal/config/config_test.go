package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thraizz/monopoly-server-go/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTP.Address)
	assert.Equal(t, ":9090", cfg.Server.GRPC.Address)
	assert.Equal(t, ":8081", cfg.Server.WebSocket.Address)
	assert.Equal(t, store.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 100, cfg.Runner.MaxTurns)
	assert.Equal(t, 20, cfg.Runner.MaxActionsPerTurn)
	assert.Equal(t, 50, cfg.Game.EventLogSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    address: ":7000"
  websocket:
    allowed_origins: ["https://table.example"]
store:
  driver: redis
  redis_address: "cache:6379"
game:
  seed: 99
runner:
  max_turns: 40
logging:
  level: debug
  format: json
`)
	t.Setenv("MONOPOLY_RUNNER_MAX_ACTIONS_PER_TURN", "7")
	t.Setenv("MONOPOLY_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.HTTP.Address)
	assert.Equal(t, []string{"https://table.example"}, cfg.Server.WebSocket.AllowedOrigins)
	assert.Equal(t, store.DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddress)
	assert.Equal(t, uint64(99), cfg.Game.Seed)
	assert.Equal(t, 40, cfg.Runner.MaxTurns)
	assert.Equal(t, 7, cfg.Runner.MaxActionsPerTurn)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Auth.Enabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "store:\n  driver: sqlite\n"},
		{name: "postgres without dsn", body: "store:\n  driver: postgres\n"},
		{name: "unknown log format", body: "logging:\n  format: xml\n"},
		{name: "negative runner limit", body: "runner:\n  max_turns: -1\n"},
		{name: "zero ttl with auth", body: "auth:\n  jwt_secret: x\n  token_ttl: 0s\n"},
		{name: "malformed yaml", body: "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
