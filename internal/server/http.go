package server

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/config"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/session"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// HTTPServer is the JSON tool API.
type HTTPServer struct {
	app      *fiber.App
	games    *session.Manager
	registry *tools.Registry
	auth     *Authenticator
	logger   *zap.Logger
}

type tokenRequest struct {
	Password string `json:"password"`
}

type createGameRequest struct {
	Players []string `json:"players"`
}

type errorResponse struct {
	Error string     `json:"error"`
	Code  rules.Code `json:"code"`
}

// NewHTTPServer wires the routes. When auth is enabled every /games and
// /tools route requires a bearer token from POST /auth/token.
func NewHTTPServer(cfg config.HTTPConfig, games *session.Manager, registry *tools.Registry, auth *Authenticator, origins []string, logger *zap.Logger) *HTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &HTTPServer{
		games:    games,
		registry: registry,
		auth:     auth,
		logger:   logger,
	}
	// Immutable: game ids taken from params outlive the request in the session map.
	s.app = fiber.New(fiber.Config{
		Immutable:             true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	corsCfg := cors.ConfigDefault
	if len(origins) > 0 {
		corsCfg.AllowOrigins = strings.Join(origins, ",")
	}
	s.app.Use(cors.New(corsCfg))
	s.app.Use(s.logRequests)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "games": games.Count()})
	})
	s.app.Post("/auth/token", s.issueToken)

	guard := func(c *fiber.Ctx) error { return c.Next() }
	if auth.Enabled() {
		guard = jwtware.New(jwtware.Config{
			SigningKey:   auth.signingKey(),
			ErrorHandler: s.handleAuthError,
		})
	}
	s.app.Get("/tools", guard, s.listTools)
	api := s.app.Group("/games", guard)
	api.Get("/", s.listGames)
	api.Post("/", s.createGame)
	api.Get("/:id", s.query(tools.GetGameState))
	api.Get("/:id/actions", s.query(tools.GetAvailableActions))
	api.Get("/:id/standings", s.query(tools.GetStandings))
	api.Post("/:id/tools/:name", s.callTool)
	api.Delete("/:id", s.deleteGame)
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *HTTPServer) App() *fiber.App { return s.app }

// Listen serves until Shutdown is called.
func (s *HTTPServer) Listen(addr string) error {
	s.logger.Info("starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *HTTPServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *HTTPServer) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Debug("http request", fields...)
	return err
}

func (s *HTTPServer) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
	}
	code := rules.CodeOf(err)
	statusCode := httpStatus(code)
	if statusCode >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(statusCode).JSON(errorResponse{Error: err.Error(), Code: code})
}

func (s *HTTPServer) handleAuthError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: err.Error()})
}

func (s *HTTPServer) issueToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "body must be JSON with a password")
	}
	token, expires, err := s.auth.Issue(req.Password)
	switch {
	case errors.Is(err, ErrAuthDisabled):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrBadCredentials):
		s.logger.Warn("admin authentication failed", zap.String("ip", c.IP()))
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case err != nil:
		return err
	}
	return c.JSON(fiber.Map{"access_token": token, "expires_at": expires.UTC()})
}

func (s *HTTPServer) listTools(c *fiber.Ctx) error {
	return c.JSON(s.registry.List())
}

func (s *HTTPServer) listGames(c *fiber.Ctx) error {
	ids, err := s.games.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"games": ids})
}

func (s *HTTPServer) createGame(c *fiber.Ctx) error {
	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "body must be JSON with a players list")
	}
	view, err := s.games.Create(c.Context(), req.Players)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (s *HTTPServer) query(tool string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := s.registry.Dispatch(c.Context(), s.games, c.Params("id"), tool, nil)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

func (s *HTTPServer) callTool(c *fiber.Ctx) error {
	args := tools.Args{}
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "tool arguments must be a JSON object")
		}
	}
	out, err := s.registry.Dispatch(c.Context(), s.games, c.Params("id"), c.Params("name"), args)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (s *HTTPServer) deleteGame(c *fiber.Ctx) error {
	if err := s.games.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
