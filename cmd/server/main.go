package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-cotizaciones/auth"
	"github.com/diewo77/go-cotizaciones/internal/config"
	"github.com/diewo77/go-cotizaciones/internal/db"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/internal/server"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"github.com/joho/godotenv"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run local store migrations and exit")

// sessionPurgeInterval is how often expired sessions are removed.
const sessionPurgeInterval = 15 * time.Minute

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// Open the local store (sqlite by default); migrations run on open
	conn, err := db.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("Migrations completed successfully")
		return
	}

	rc := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	sessions := services.NewSessionService(rc, db.NewSessionRepo(conn), cfg.Session.TTL, cfg.Remote.RefreshWindow)

	auth.SetSecret(cfg.Session.Secret)
	auth.SetTTL(cfg.Session.TTL)
	// Cookies pointing at deleted or expired sessions are rejected
	auth.SetSessionVerifier(sessions.Exists)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.PurgeLoop(ctx, sessionPurgeInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewRouter(cfg, conn, rc, sessions),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (dev=%v, remote=%s, storage=%s)",
			cfg.Server.Port, cfg.App.Dev, cfg.Remote.BaseURL, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
