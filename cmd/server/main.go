package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ticketlens/backend/internal/ai"
	"github.com/ticketlens/backend/internal/config"
	httpapi "github.com/ticketlens/backend/internal/http"
	"github.com/ticketlens/backend/internal/intent"
	"github.com/ticketlens/backend/internal/service"
	"github.com/ticketlens/backend/internal/warehouse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "ticket-insights").Logger()

	ctx := context.Background()
	wh, err := warehouse.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.WarehouseDriver).Msg("failed to open warehouse")
	}
	defer wh.Close()

	dialect, err := intent.DialectFor(cfg.WarehouseDriver)
	if err != nil {
		logger.Fatal().Err(err).Msg("unsupported warehouse dialect")
	}

	svc := &service.QueryService{
		Classifier: intent.NewClassifier(cfg.RecentDefaultLimit, cfg.RecentMaxLimit),
		Bank: intent.Bank{
			Dialect:     dialect,
			Table:       cfg.WarehouseTable,
			PageSize:    cfg.PageSize,
			DetailLimit: cfg.RecentDefaultLimit,
		},
		Warehouse: wh,
		Narrator:  &service.Narrator{SampleRows: cfg.NarratorSampleRows, Logger: logger},
		Options: service.Options{
			Mode:             service.Mode(cfg.QueryMode),
			ChartMaxPoints:   cfg.ChartMaxPoints,
			CardMax:          cfg.CardMax,
			CardRowThreshold: cfg.CardRowThreshold,
			RawDataMax:       cfg.RawDataMax,
		},
		Logger: logger,
	}

	var lister ai.ModelLister
	if cfg.GenAIEnabled() {
		chain, err := ai.NewModelChain(ai.Config{
			BaseURL:        cfg.GenAIBaseURL,
			APIKey:         cfg.GenAIAPIKey,
			Models:         cfg.Models(),
			AttemptTimeout: cfg.GenAIAttemptTimeout,
			MaxTokens:      cfg.GenAIMaxTokens,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build model client")
		}
		lister = chain
		svc.Narrator.Generator = chain
		svc.SQLGen = &service.SQLGenerator{
			Generator: chain,
			Dialect:   dialect,
			Table:     cfg.WarehouseTable,
			Logger:    logger,
		}
		logger.Info().Strs("models", chain.Models()).Str("mode", cfg.QueryMode).Msg("generative model enabled")
	} else {
		logger.Warn().Msg("generative model not configured, using rules and templated answers")
	}

	router := httpapi.Router(cfg, svc, wh, lister, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("warehouse", cfg.WarehouseDriver).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
