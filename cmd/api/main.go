package main

import (
	"net/http"
	"os"
	"time"

	"dog-blood-donation/internal/adapters/auth/tokenauth"
	pg "dog-blood-donation/internal/adapters/storage/postgres"
	"dog-blood-donation/internal/platform/config"
	"dog-blood-donation/internal/platform/logger"
	"dog-blood-donation/internal/ports/auth"
	"dog-blood-donation/internal/router"
)

func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv(cfg.AppName)

	opts := router.Options{}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warn("DB_DSN not set, using in-memory repos", nil)
	}

	var verifier auth.AuthVerifier
	if cfg.JWTSigningKey != "" {
		verifier = tokenauth.NewVerifier(cfg.JWTSigningKey)
	} else {
		log.Warn("JWT_SIGNING_KEY not set, running in dev mode (debug headers)", nil)
	}
	opts.AuthVerifier = verifier

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
