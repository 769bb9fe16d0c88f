package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	pg "clinic-records/internal/adapters/storage/postgres"
	"clinic-records/internal/platform/config"
	"clinic-records/internal/platform/logger"
	"clinic-records/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres unavailable", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
	} else {
		log.Warn("DB_DSN empty, using in-memory storage", nil)
	}

	r := router.NewRouter(router.Options{DB: db, Log: log})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // los imports grandes tardan
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
