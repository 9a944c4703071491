package main

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/emcr30/chicago-web/internal/api"
	"github.com/emcr30/chicago-web/internal/auth"
	"github.com/emcr30/chicago-web/internal/config"
	"github.com/emcr30/chicago-web/internal/observability"
	"github.com/emcr30/chicago-web/internal/service"
	"github.com/emcr30/chicago-web/internal/session"
	"github.com/emcr30/chicago-web/internal/socrata"
	"github.com/emcr30/chicago-web/internal/storage"
	"github.com/emcr30/chicago-web/internal/synth"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// A failed store is not fatal: the dashboard degrades to
	// memory-only mode and every persistence request reports it.
	store := openStore(cfg, log)
	if store != nil {
		defer store.Close()
	}

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()
	client := socrata.NewClient(cfg.SocrataURL, cfg.PageSize, log)
	generator := synth.New(clock, time.Now().UnixNano())
	workingSet := session.New()

	incidents := service.NewIncidentService(client, generator, workingSet, store, metrics, log)
	authService := auth.NewService(cfg.AdminUser, cfg.AdminPassHash, cfg.JWTSecret, clock)

	router := api.SetupRouter(incidents, authService, log)

	log.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func openStore(cfg *config.Config, log *logrus.Logger) storage.IncidentStore {
	var (
		store storage.IncidentStore
		err   error
	)

	switch cfg.DBMode {
	case "postgres":
		store, err = storage.NewPostgresStore(cfg.PostgresDSN)
	default:
		store, err = storage.NewSQLiteStore(cfg.SQLitePath)
	}
	if err != nil {
		log.WithError(err).Warn("local store unavailable, continuing in memory-only mode")
		return nil
	}

	log.WithFields(logrus.Fields{"mode": cfg.DBMode}).Info("local store ready")
	return store
}
