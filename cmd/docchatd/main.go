package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/export"
	"github.com/kehinde-ajayi/docchat/internal/extract"
	"github.com/kehinde-ajayi/docchat/internal/ingest"
	"github.com/kehinde-ajayi/docchat/internal/llm/gemini"
	"github.com/kehinde-ajayi/docchat/internal/logging"
	"github.com/kehinde-ajayi/docchat/internal/server"
	"github.com/kehinde-ajayi/docchat/internal/session"
)

func main() {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer func() {
		_ = logger.Sync()
	}()

	extractor := extract.NewCachingExtractor(
		extract.NewExtractor(extract.Config{
			Pdftotext:     cfg.Extract.Pdftotext,
			Pdftoppm:      cfg.Extract.Pdftoppm,
			Tesseract:     cfg.Extract.Tesseract,
			TesseractLang: cfg.Extract.TesseractLang,
			TessdataDir:   cfg.Extract.TessdataDir,
			DPI:           cfg.Extract.DPI,
			MaxPages:      cfg.Extract.MaxPages,
		}, logger),
		cfg.Extract.CacheTTL,
		logger,
	)

	responder := gemini.NewClient(gemini.Config{
		APIKey:    cfg.Gemini.APIKey,
		BaseURL:   cfg.Gemini.BaseURL,
		Model:     cfg.Gemini.Model,
		Timeout:   cfg.Gemini.Timeout,
		Grounding: cfg.Gemini.Grounding,
	}, logger)

	store := session.NewStore(logger)
	dispatcher := session.NewDispatcher(store, responder, logger)
	exporter := export.NewService(store, logger)
	ingestor := ingest.NewFSIngestor(cfg.Uploads.Dir, logger)

	srv := server.New(cfg, server.Deps{
		Store:      store,
		Dispatcher: dispatcher,
		Extractor:  extractor,
		Ingestor:   ingestor,
		Exporter:   exporter,
		Forgetter:  responder,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Uploads.Watch {
		startUploadsWatcher(ctx, cfg, store, extractor, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}
}

// startUploadsWatcher ingests documents dropped directly into the uploads
// directory, bypassing the HTTP upload endpoint.
func startUploadsWatcher(ctx context.Context, cfg *common.Config, store *session.Store, extractor extract.TextExtractor, logger *zap.Logger) {
	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		logger.Error("uploads dir create failed", zap.String("dir", cfg.Uploads.Dir), zap.Error(err))
		return
	}

	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:     cfg.Uploads.Dir,
		Debounce: cfg.Uploads.WatchDebounce,
	}, logger)
	if err != nil {
		logger.Error("uploads watcher start failed", zap.Error(err))
		return
	}
	logger.Info("uploads watcher started", zap.String("dir", cfg.Uploads.Dir))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-evCh:
				if !ok {
					return
				}
				extractCtx, cancel := context.WithTimeout(ctx, cfg.Extract.Timeout)
				res, err := extractor.Extract(extractCtx, path)
				cancel()
				if err != nil {
					logger.Warn("watched file extraction failed", zap.String("path", path), zap.Error(err))
					continue
				}
				name := filepath.Base(path)
				store.AddDocument(session.Document{
					Name:       name,
					Text:       res.Text,
					Kind:       res.SourceType,
					Path:       path,
					UploadedAt: time.Now().UTC(),
				})
				logger.Info("watched file ingested", zap.String("name", name), zap.Int("text_chars", len(res.Text)))
			case werr, ok := <-errCh:
				if !ok {
					return
				}
				logger.Warn("uploads watcher error", zap.Error(werr))
			}
		}
	}()
}
