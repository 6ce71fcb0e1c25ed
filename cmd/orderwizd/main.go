package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/order-wizard/internal/common"
	"github.com/joseph-ayodele/order-wizard/internal/export"
	"github.com/joseph-ayodele/order-wizard/internal/ocr"
	"github.com/joseph-ayodele/order-wizard/internal/repository"
	"github.com/joseph-ayodele/order-wizard/internal/server"
)

func main() {
	// Process-level logger
	zlog, _ := zap.NewProduction()
	defer zlog.Sync()
	log := zlog.Sugar()

	// Structured logger for the internal packages
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer repository.Close(db, logger)

	if err := repository.HealthCheck(ctx, db, cfg.Database.HealthTimeout, logger); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}
	log.Infow("database health OK")

	orders, err := repository.NewOrderRepository(ctx, db, logger)
	if err != nil {
		log.Fatalf("initializing order store: %v", err)
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
	}, logger)
	ocrSvc := ocr.NewService(extractor, logger)
	exportSvc := export.NewService(orders, logger)

	srv := server.New(db, orders, ocrSvc, exportSvc, cfg.Search.AmountTolerance, logger)

	go func() {
		if err := srv.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()
	log.Infof("serving on %s", cfg.Server.HTTPAddr)

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
