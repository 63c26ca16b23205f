package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/agenthands/ise/internal/bootstrap"
	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core"
	"github.com/agenthands/ise/internal/driver"
	"github.com/agenthands/ise/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	logger := newLogger(cfg.Server)
	slog.SetDefault(logger)

	ctx := context.Background()
	components, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize components", "error", err)
		os.Exit(1)
	}
	defer components.Close()

	var exporter server.Exporter
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph, logger)
		if err != nil {
			logger.Error("Failed to connect to Memgraph", "error", err)
			os.Exit(1)
		}
		defer d.Close(ctx)
		if err := d.BuildIndices(ctx); err != nil {
			logger.Warn("Failed to build indices", "error", err)
		}
		exporter = core.NewExporter(d)
	}

	newRunner := func(ctx context.Context, run config.Run) (server.Runner, error) {
		return components.Frontier(ctx, run, core.LogReporter{Logger: logger})
	}
	srv, err := server.NewServer(newRunner, exporter, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}
	r := srv.SetupRouter()

	logger.Info("Starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// newLogger writes JSON logs to stdout and, when configured, to a rotating file.
func newLogger(cfg config.ServerConfig) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		})
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}
