// Command simulate plays complete games between decision providers and
// prints each outcome as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thraizz/monopoly-server-go/internal/agent"
	"github.com/thraizz/monopoly-server-go/internal/config"
	"github.com/thraizz/monopoly-server-go/internal/runner"
	"github.com/thraizz/monopoly-server-go/internal/session"
	"github.com/thraizz/monopoly-server-go/internal/store"
	"github.com/thraizz/monopoly-server-go/internal/tools"
	"github.com/thraizz/monopoly-server-go/internal/tournament"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	players    = flag.String("players", "ada,bo,cy,di", "comma separated player names")
	agents     = flag.String("agents", "heuristic", "comma separated providers per player: heuristic, random or lua:<script>; the last one repeats")
	seed       = flag.Uint64("seed", 0, "dice and provider seed; 0 keeps the configured game seed")
	games      = flag.Int("games", 1, "number of games to play; more than one plays a series with rotating seats")
	maxTurns   = flag.Int("max-turns", 0, "override runner.max_turns")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *maxTurns > 0 {
		cfg.Runner.MaxTurns = *maxTurns
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	names := splitList(*players)
	providers, closeAll, err := buildProviders(names, splitList(*agents), cfg.Game.Seed)
	if err != nil {
		return err
	}
	defer closeAll()

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("failed to open game store: %w", err)
	}
	manager := session.NewManager(st, cfg.Game, logger)
	defer manager.Close()

	r := runner.New(manager, tools.NewRegistry(), providers, cfg.Runner, logger)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *games > 1 {
		series, err := tournament.NewSeries("simulation", names, *games, logger)
		if err != nil {
			return err
		}
		if err := series.Play(ctx, manager, r); err != nil {
			return err
		}
		return enc.Encode(series.Snapshot())
	}

	view, err := manager.Create(ctx, names)
	if err != nil {
		return err
	}
	out, err := r.Run(ctx, view.ID)
	if err != nil {
		return fmt.Errorf("game %s: %w", view.ID, err)
	}
	logger.Info("game finished",
		zap.String("game_id", out.GameID),
		zap.String("reason", string(out.Reason)),
		zap.String("winner", out.Winner),
		zap.Int("turns", out.Turns),
	)
	return enc.Encode(out)
}

// buildProviders pairs players with provider specs. Lua states are closed by
// the returned func.
func buildProviders(names, specs []string, seed uint64) (map[string]agent.DecisionProvider, func(), error) {
	providers := make(map[string]agent.DecisionProvider, len(names))
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(specs) == 0 {
		specs = []string{"heuristic"}
	}
	for i, name := range names {
		spec := specs[min(i, len(specs)-1)]
		p, err := agent.FromSpec(spec, seed+uint64(i))
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("player %s: %w", name, err)
		}
		if c, ok := p.(interface{ Close() }); ok {
			closers = append(closers, c.Close)
		}
		providers[name] = p
	}
	return providers, closeAll, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Outcomes go to stdout; keep logs off it.
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
