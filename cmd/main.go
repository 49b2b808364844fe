package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"vegcheck/config"
	"vegcheck/internal/api"
	"vegcheck/internal/container"
	"vegcheck/internal/infrastructure/classifier"
	"vegcheck/internal/infrastructure/storage"
	"vegcheck/internal/infrastructure/vision"
	"vegcheck/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Service stopped with error")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	opts, err := cfg.ExtractorOptions()
	if err != nil {
		return err
	}

	// Модель загружается один раз и дальше только читается
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		return err
	}

	backend := vision.NewBackend()
	appContainer, err := container.New(backend, model, storage.NewMemoryUserRepository(), opts)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"backend":       backend.Name,
		"model":         cfg.ModelPath,
		"color_mode":    opts.ColorMode,
		"preprocessing": opts.Preprocessing,
	}).Info("Pipeline ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TelegramToken != "" {
		bot, err := api.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.InspectionService, logger)
		if err != nil {
			return err
		}
		go func() {
			logger.Info("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				logger.WithError(err).Error("Bot error")
			}
		}()
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(appContainer.InspectionService, logger, cfg.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
