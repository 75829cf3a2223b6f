// Package runner drives a hosted game with decision providers until someone
// wins or a safety limit trips.
package runner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/agent"
	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// Defaults for Config.
const (
	DefaultMaxTurns          = 100
	DefaultMaxActionsPerTurn = 20
)

// Config bounds a run.
type Config struct {
	MaxTurns          int `mapstructure:"max_turns"`
	MaxActionsPerTurn int `mapstructure:"max_actions_per_turn"`
}

// StopReason says why a run ended.
type StopReason string

const (
	StopWinner    StopReason = "winner"
	StopTurnLimit StopReason = "turn_limit"
)

// Outcome summarizes a finished run.
type Outcome struct {
	GameID     string          `json:"game_id"`
	Reason     StopReason      `json:"reason"`
	Winner     string          `json:"winner,omitempty"`
	Turns      int             `json:"turns"`
	Actions    int             `json:"actions"`
	Fallbacks  int             `json:"fallbacks"`
	Rejected   int             `json:"rejected"`
	ForcedEnds int             `json:"forced_ends"`
	Standings  []game.Standing `json:"standings"`
	FinalPhase rules.Phase     `json:"final_phase"`
}

// Runner plays one game at a time through the tool registry, so every
// decision is checked and persisted exactly like a remote client's.
type Runner struct {
	cfg       Config
	host      tools.Host
	registry  *tools.Registry
	providers map[string]agent.DecisionProvider
	fallback  agent.DecisionProvider
	logger    *zap.Logger
}

// New creates a runner. providers maps player names to their decision
// makers; players without one use the heuristic provider.
func New(host tools.Host, registry *tools.Registry, providers map[string]agent.DecisionProvider, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = tools.NewRegistry()
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.MaxActionsPerTurn <= 0 {
		cfg.MaxActionsPerTurn = DefaultMaxActionsPerTurn
	}
	return &Runner{
		cfg:       cfg,
		host:      host,
		registry:  registry,
		providers: providers,
		fallback:  agent.NewHeuristic(),
		logger:    logger,
	}
}

func (r *Runner) provider(player string) agent.DecisionProvider {
	if p, ok := r.providers[player]; ok && p != nil {
		return p
	}
	return r.fallback
}

// Run plays gameID until it is over or the turn limit is reached.
func (r *Runner) Run(ctx context.Context, gameID string) (*Outcome, error) {
	out := &Outcome{GameID: gameID}
	logger := r.logger.With(zap.String("game_id", gameID))

	var turn, turnCount, cursor int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			obs  agent.Observation
			over bool
		)
		err := r.host.View(ctx, gameID, func(g *game.Game) error {
			over = g.Over()
			if g.Turn() != turn {
				turn = g.Turn()
				turnCount = 0
			}
			obs = agent.Observe(g, g.CurrentPlayer())
			return nil
		})
		if err != nil {
			return nil, err
		}
		if over {
			out.Reason = StopWinner
			break
		}
		if turn > r.cfg.MaxTurns {
			out.Reason = StopTurnLimit
			break
		}

		if turnCount >= r.cfg.MaxActionsPerTurn {
			logger.Warn("action cap reached, forcing end of turn",
				zap.Int("turn", turn),
				zap.String("player", obs.Actions.Actor),
			)
			if err := r.host.Do(ctx, gameID, func(g *game.Game) error {
				_, err := g.ForceEndTurn()
				return err
			}); err != nil {
				return nil, fmt.Errorf("failed to force end of turn %d: %w", turn, err)
			}
			out.ForcedEnds++
			continue
		}

		if obs.Actions.Phase == rules.PhaseAuctionInProgress {
			obs.Player = nextBidder(obs.Actions, &cursor)
		}
		turnCount++
		out.Actions++
		applied, fellBack := r.step(ctx, logger, gameID, obs)
		if fellBack {
			out.Fallbacks++
		}
		if !applied {
			out.Rejected++
		}
	}

	err := r.host.View(ctx, gameID, func(g *game.Game) error {
		out.Winner = g.Winner()
		out.Turns = g.Turn()
		out.Standings = g.Standings()
		out.FinalPhase = g.Phase()
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("run finished",
		zap.String("reason", string(out.Reason)),
		zap.String("winner", out.Winner),
		zap.Int("turns", out.Turns),
		zap.Int("actions", out.Actions),
		zap.Int("forced_ends", out.ForcedEnds),
	)
	return out, nil
}

// step asks the player's provider for a decision and applies it. A failed
// decision is retried once with the fallback provider.
func (r *Runner) step(ctx context.Context, logger *zap.Logger, gameID string, obs agent.Observation) (applied, fellBack bool) {
	primary := r.provider(obs.Player)
	decision, err := primary.Decide(ctx, obs)
	if err == nil {
		_, err = r.registry.Dispatch(ctx, r.host, gameID, decision.Tool, decision.Args)
		if err == nil {
			logger.Debug("decision applied",
				zap.String("player", obs.Player),
				zap.String("provider", primary.Name()),
				zap.Stringer("decision", decision),
			)
			return true, false
		}
	}
	logger.Info("decision rejected, using fallback",
		zap.String("player", obs.Player),
		zap.String("provider", primary.Name()),
		zap.String("code", string(rules.CodeOf(err))),
		zap.Error(err),
	)
	if primary == r.fallback {
		return false, false
	}

	decision, err = r.fallback.Decide(ctx, obs)
	if err == nil {
		_, err = r.registry.Dispatch(ctx, r.host, gameID, decision.Tool, decision.Args)
	}
	if err != nil {
		var coded rules.Coded
		if !errors.As(err, &coded) {
			logger.Warn("fallback decision failed", zap.String("player", obs.Player), zap.Error(err))
		}
		return false, true
	}
	return true, true
}

// nextBidder rotates through the remaining bidders, skipping the high
// bidder, who cannot pass.
func nextBidder(set game.ActionSet, cursor *int) string {
	var eligible []string
	for _, b := range set.Bidders {
		if b != set.HighBidder {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return set.HighBidder
	}
	name := eligible[*cursor%len(eligible)]
	*cursor++
	return name
}
