package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/vbonduro/fieldshot/internal/config"
	"github.com/vbonduro/fieldshot/internal/db"
	"github.com/vbonduro/fieldshot/internal/export"
	exportlocal "github.com/vbonduro/fieldshot/internal/export/local"
	frameslocal "github.com/vbonduro/fieldshot/internal/framestore/local"
	"github.com/vbonduro/fieldshot/internal/logging"
	"github.com/vbonduro/fieldshot/internal/persist"
	"github.com/vbonduro/fieldshot/internal/service"
	"github.com/vbonduro/fieldshot/internal/store"
	"github.com/vbonduro/fieldshot/internal/vision"
	claudevision "github.com/vbonduro/fieldshot/internal/vision/claude"
	ollamavision "github.com/vbonduro/fieldshot/internal/vision/ollama"
	"github.com/vbonduro/fieldshot/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	frames, err := frameslocal.NewLocalFrameStore(cfg.FramePath)
	if err != nil {
		logger.Error("failed to initialize frame store", "error", err)
		return
	}

	svc := service.NewCaptureService(
		store.NewProjectStore(),
		store.NewTemplateStore(),
		persist.New(db.NewKV(database), logger),
		frames,
		newExportSink(cfg, logger),
		newSuggester(cfg, logger),
		logger,
	)
	svc.Rehydrate(context.Background())

	server := web.NewServer(svc, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newExportSink(cfg *config.Config, logger *slog.Logger) export.Sink {
	if cfg.ExportPath == "" {
		logger.Info("no export path configured, exports fall back to manifest only")
		return nil
	}
	sink, err := exportlocal.NewLocalSink(cfg.ExportPath)
	if err != nil {
		logger.Error("failed to initialize export sink, exports fall back to manifest only", "error", err)
		return nil
	}
	logger.Info("using local export sink", "path", cfg.ExportPath)
	return sink
}

func newSuggester(cfg *config.Config, logger *slog.Logger) vision.Suggester {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude vision backend")
		return claudevision.NewClaudeSuggester(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaSuggester(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("tag suggestions disabled")
		return nil
	}
}
