// Package config loads server configuration from a YAML file, an optional
// .env file and MONOPOLY_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thraizz/monopoly-server-go/internal/runner"
	"github.com/thraizz/monopoly-server-go/internal/session"
	"github.com/thraizz/monopoly-server-go/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. MONOPOLY_STORE_DRIVER.
const EnvPrefix = "MONOPOLY"

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig   `mapstructure:"server"`
	Auth    AuthConfig     `mapstructure:"auth"`
	Store   store.Config   `mapstructure:"store"`
	Game    session.Config `mapstructure:"game"`
	Runner  runner.Config  `mapstructure:"runner"`
	Logging LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds listener settings for every transport.
type ServerConfig struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

type HTTPConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type GRPCConfig struct {
	Address              string `mapstructure:"address"`
	MaxConcurrentStreams int    `mapstructure:"max_concurrent_streams"`
}

type WebSocketConfig struct {
	Address        string        `mapstructure:"address"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// AuthConfig protects the mutating endpoints. An empty JWTSecret disables
// authentication entirely.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// AdminPasswordHash is a bcrypt hash; empty disables token issuance.
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
}

// Enabled reports whether requests must carry a token.
func (a AuthConfig) Enabled() bool { return a.JWTSecret != "" }

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.address", ":8080")
	v.SetDefault("server.http.read_timeout", 10*time.Second)
	v.SetDefault("server.http.write_timeout", 10*time.Second)
	v.SetDefault("server.grpc.address", ":9090")
	v.SetDefault("server.grpc.max_concurrent_streams", 100)
	v.SetDefault("server.websocket.address", ":8081")
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.websocket.ping_interval", 30*time.Second)
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("store.driver", store.DriverMemory)
	v.SetDefault("store.redis_address", "localhost:6379")
	v.SetDefault("store.redis_prefix", store.DefaultRedisPrefix)
	v.SetDefault("store.postgres_dsn", "")

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.event_log_size", 50)

	v.SetDefault("runner.max_turns", runner.DefaultMaxTurns)
	v.SetDefault("runner.max_actions_per_turn", runner.DefaultMaxActionsPerTurn)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from path. A missing file or .env is not an
// error; defaults and the environment still apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case store.DriverMemory, store.DriverRedis:
	case store.DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	if c.Auth.Enabled() && c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Runner.MaxTurns < 0 || c.Runner.MaxActionsPerTurn < 0 {
		return fmt.Errorf("runner limits must not be negative")
	}
	return nil
}
