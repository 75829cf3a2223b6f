package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thraizz/monopoly-server-go/internal/config"
	"github.com/thraizz/monopoly-server-go/internal/server"
	"github.com/thraizz/monopoly-server-go/internal/session"
	"github.com/thraizz/monopoly-server-go/internal/store"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting monopoly server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	if !cfg.Auth.Enabled() {
		logger.Warn("auth.jwt_secret not configured; every endpoint is open")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize game store
	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open game store", zap.Error(err))
	}
	logger.Info("game store initialized", zap.String("driver", cfg.Store.Driver))

	games := session.NewManager(st, cfg.Game, logger)
	defer games.Close()

	registry := tools.NewRegistry()
	auth := server.NewAuthenticator(cfg.Auth)

	// Start HTTP server
	httpServer := server.NewHTTPServer(cfg.Server.HTTP, games, registry, auth, cfg.Server.WebSocket.AllowedOrigins, logger)
	go func() {
		if httpErr := httpServer.Listen(cfg.Server.HTTP.Address); httpErr != nil {
			logger.Error("HTTP server error", zap.Error(httpErr))
		}
	}()

	// Start gRPC server
	grpcServer := server.NewGRPCServer(cfg.Server.GRPC, server.NewToolServer(games, registry, logger), auth, logger)
	lis, err := net.Listen("tcp", cfg.Server.GRPC.Address)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		logger.Info("starting gRPC server", zap.String("address", cfg.Server.GRPC.Address))
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
		}
	}()

	// Start WebSocket server
	hub := server.NewHub(cfg.Server.WebSocket, games, registry, auth, logger)
	go func() {
		if wsErr := server.StartWebSocketServer(ctx, cfg.Server.WebSocket, hub, logger); wsErr != nil {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("monopoly server initialized",
		zap.String("version", version),
		zap.String("http_address", cfg.Server.HTTP.Address),
		zap.String("grpc_address", cfg.Server.GRPC.Address),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	if err := httpServer.Shutdown(); err != nil {
		logger.Warn("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	logger.Info("monopoly server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
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

	return zapCfg.Build()
}
