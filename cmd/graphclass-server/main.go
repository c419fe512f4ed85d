package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dd0wney/cluso-graphclass/pkg/api"
	"github.com/dd0wney/cluso-graphclass/pkg/api/middleware"
	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/config"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/health"
	"github.com/dd0wney/cluso-graphclass/pkg/logging"
	"github.com/dd0wney/cluso-graphclass/pkg/metrics"
	"github.com/dd0wney/cluso-graphclass/pkg/server"
	"github.com/dd0wney/cluso-graphclass/pkg/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("GRAPHCLASS_CONFIG"), "YAML config file (optional)")
	flag.Parse()

	// Bootstrap logging until the configured logger exists
	boot := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	ctx := context.Background()
	gs, err := setup(ctx, cfg, logger)
	if err != nil {
		boot.Error("startup failed", "error", err)
		os.Exit(1)
	}

	gs.SetReloadFunc(func() error {
		next, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(next.Logging.Level))
		logger.Info("log level reloaded", logging.String("level", logger.GetLevel().String()))
		return nil
	})

	if err := gs.Run(ctx); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

// setup loads the model and wires every component behind a graceful server
func setup(ctx context.Context, cfg *config.Config, logger logging.Logger) (*server.GracefulServer, error) {
	apiServer, err := buildAPI(ctx, cfg, logger, metrics.DefaultRegistry())
	if err != nil {
		return nil, err
	}
	return server.NewGracefulServer(cfg.Addr(), apiServer.Handler(), server.Options{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	}), nil
}

// buildAPI loads the model and assembles the HTTP API around it
func buildAPI(ctx context.Context, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*api.Server, error) {
	timer := logging.StartTimer(logger, "model loaded", logging.ModelSource(cfg.Model.Path))
	model, err := gnn.Load(ctx, cfg.Model.Path, gnn.WithS3Options(cfg.Model.S3))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.Model.Path, err)
	}
	timer.End(
		logging.Int("hidden_channels", model.HiddenChannels()),
		logging.Int("parameters", model.NumParameters()),
	)

	clf, err := classifier.New(model, cfg.ClassifierOptions())
	if err != nil {
		return nil, err
	}
	reg.SetModelInfo(cfg.Model.Path, model.InChannels(), model.HiddenChannels(), model.OutChannels(), model.NumParameters())

	svc, err := service.New(clf, cfg.RequestLimits(),
		service.WithRecorder(reg),
		service.WithLogger(logger.With(logging.Component("service"))),
	)
	if err != nil {
		return nil, err
	}

	hc := health.NewHealthChecker()
	hc.RegisterLivenessCheck("alive", health.AliveCheck())
	hc.RegisterReadinessCheck("model", health.ModelCheck(func() health.ModelStatus {
		return health.ModelStatus{
			Loaded:         true,
			Source:         cfg.Model.Path,
			InChannels:     model.InChannels(),
			HiddenChannels: model.HiddenChannels(),
			OutChannels:    model.OutChannels(),
		}
	}))
	hc.RegisterCheck("memory", health.MemoryCheck(0))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORS.AllowedOrigins
	cors.MaxAge = cfg.CORS.MaxAge
	if cfg.AllowsAnyOrigin() {
		logger.Warn("CORS allows all origins")
	}

	return api.NewServer(api.Options{
		Service:       svc,
		Health:        hc,
		Metrics:       reg,
		Logger:        logger,
		CORS:          cors,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		EnableGraphQL: cfg.Server.EnableGraphQL,
	})
}
