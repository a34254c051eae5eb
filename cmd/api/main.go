package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vcambrosio/experimentepro-sub000/internal/auth"
	"github.com/vcambrosio/experimentepro-sub000/internal/checklist"
	"github.com/vcambrosio/experimentepro-sub000/internal/config"
	"github.com/vcambrosio/experimentepro-sub000/internal/db"
	"github.com/vcambrosio/experimentepro-sub000/internal/ledger"
	"github.com/vcambrosio/experimentepro-sub000/internal/logging"
	"github.com/vcambrosio/experimentepro-sub000/internal/metrics"
	"github.com/vcambrosio/experimentepro-sub000/internal/order"
	"github.com/vcambrosio/experimentepro-sub000/internal/router"
	"github.com/vcambrosio/experimentepro-sub000/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatal(err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer pgDB.Close()

	// ───────────────────────── AUTH ─────────────────────────
	validator, err := auth.NewValidator(cfg.JWTSecret)
	if err != nil {
		log.WithError(err).Fatal("auth init failed")
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var archive checklist.ExportArchive
	if cfg.R2.Enabled() {
		r2Client, err := storage.NewR2Client(ctx, storage.Config{
			Endpoint:      cfg.R2.Endpoint,
			AccessKey:     cfg.R2.AccessKey,
			SecretKey:     cfg.R2.SecretKey,
			Bucket:        cfg.R2.Bucket,
			PublicBaseURL: cfg.R2.PublicBaseURL,
		})
		if err != nil {
			log.WithError(err).Fatal("R2 init failed")
		}
		archive = r2Client
	} else {
		log.Warn("R2 not configured, checklist exports will not be archived")
	}

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	reg := metrics.NewRegistry()

	orderService := order.NewService(order.NewPostgresRepository(pgDB), log, cfg.Location())

	checklistService := checklist.NewService(
		orderService,
		checklist.NewPostgresRepository(pgDB, log),
		checklist.NewSessionStore(),
		log,
		checklist.Options{
			ReceiptWidth: cfg.ReceiptWidth,
			RowsPerPage:  cfg.RowsPerPage,
			Archive:      archive,
			Metrics:      reg,
		},
	)

	ledgerService := ledger.NewService(ledger.NewPostgresRepository(pgDB), log, cfg.Location())

	// ───────────────────────── ROUTES ─────────────────────────
	r := router.NewRouter(router.Deps{
		Log:            log,
		Metrics:        reg,
		Validator:      validator,
		AllowedOrigins: cfg.AllowedOrigins(),
		Checklist:      checklist.NewHandler(checklistService),
		ChecklistAdmin: checklist.NewAdminHandler(checklistService),
		Orders:         order.NewHandler(orderService),
		Ledger:         ledger.NewHandler(ledgerService),
	})

	// ───────────────────────── WORKERS ─────────────────────────
	go checklistService.RunSessionReaper(ctx, time.Minute, cfg.SessionTTL)

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
