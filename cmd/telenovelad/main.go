package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"telenovela/internal/config"
	"telenovela/internal/daemon"
	"telenovela/internal/generation"
	"telenovela/internal/logging"
	"telenovela/internal/services/gemini"
	"telenovela/internal/show"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := show.Open(cfg)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		return
	}

	applyAPIKeyOverride(ctx, cfg, store, logger)

	client, err := gemini.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("create gemini client", slog.String("error", err.Error()))
		_ = store.Close()
		return
	}

	svc := generation.NewService(store, client, cfg, logger)
	d, err := daemon.New(cfg, store, svc, logger)
	if err != nil {
		logger.Error("create daemon", slog.String("error", err.Error()))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", slog.String("error", err.Error()))
		return
	}

	<-ctx.Done()
	logger.Info("telenovelad shutting down")
}

// applyAPIKeyOverride prefers an API key saved through the settings
// endpoint over the one in the config file.
func applyAPIKeyOverride(ctx context.Context, cfg *config.Config, store *show.Store, logger *slog.Logger) {
	setting, err := store.GetSetting(ctx, "gemini_api_key")
	if err != nil {
		return
	}
	if key := strings.TrimSpace(setting.Value); key != "" {
		cfg.Gemini.APIKey = key
		logger.Info("using gemini api key from settings store")
	}
}
