package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vsinha/replenish/pkg/application/services/orchestration"
	"github.com/vsinha/replenish/pkg/application/services/recommendation"
	"github.com/vsinha/replenish/pkg/infrastructure/config"
	"github.com/vsinha/replenish/pkg/infrastructure/events"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/replenish/pkg/interfaces/api"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := recommendation.NewEngineWithConfig(cfg.Engine)
	eventStore := events.NewInMemoryEventStoreWithRetention(logger, cfg.EventRetention)
	published := []string{events.RecommendationsRecomputedEvent, events.RecommendationsFailedEvent}
	if err := eventStore.Subscribe(published, &events.HandlerFunc{
		Types: published,
		Fn: func(e events.Event) error {
			logger.WithFields(logrus.Fields{
				"event":  e.Type(),
				"stream": e.StreamID(),
			}).Debug("event published")
			return nil
		},
	}); err != nil {
		logging.LogError(logger, "main", "Subscribe", "", published, err)
		os.Exit(1)
	}

	orchestrator := orchestration.NewRecommendationOrchestrator(
		engine,
		memory.NewProductRepository(),
		memory.NewOrderRepository(),
		memory.NewRecommendationRepository(),
		eventStore,
		logger,
	)

	handler := api.NewHandler(orchestrator, engine.Capacity(), logger)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "main", "ListenAndServe", cfg.HTTPAddr, nil, err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "main", "Shutdown", cfg.HTTPAddr, nil, err)
	}
	eventStore.Wait()
	logger.Info("server stopped")
}
