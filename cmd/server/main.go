// Command server runs the conversational ordering service: an HTTP API
// in front of a tool-calling chat loop backed by Gemini.
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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"nosh/internal/api"
	"nosh/internal/backend"
	"nosh/internal/core"
	"nosh/internal/llm"
	"nosh/internal/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.LogLevel)
	logger.Info("starting server",
		"port", cfg.Port,
		"model", cfg.GeminiModel,
		"default_location", cfg.DefaultLocation,
	)

	restaurants, err := backend.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	svc := backend.NewService(restaurants, cfg.DefaultLocation)

	registry := tools.NewRegistry()
	if err := tools.RegisterCatalog(registry); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	ctx := context.Background()
	model, err := llm.RegisterGeminiProvider(ctx, &llm.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("register model: %w", err)
	}

	sessions := core.NewSessionStore(cfg.MaxHistoryPairs)
	orchestrator := core.NewOrchestrator(
		model,
		registry,
		svc,
		sessions,
		logger,
		llm.BuildSystemInstruction(cfg.DefaultLocation),
		cfg.MaxToolIterations,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.NewHandler(orchestrator, sessions, registry, logger).RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
