package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/WilliamTrivedi/Blood-Donation/internal/adapter/httpserver"
	mongoadapter "github.com/WilliamTrivedi/Blood-Donation/internal/adapter/mongo"
	"github.com/WilliamTrivedi/Blood-Donation/internal/alert"
	"github.com/WilliamTrivedi/Blood-Donation/internal/auth"
	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	"github.com/WilliamTrivedi/Blood-Donation/internal/platform/config"
	"github.com/WilliamTrivedi/Blood-Donation/internal/platform/logging"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupMongo(cfg *config.Config) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongoadapter.Connect(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	return db
}

func runGracefulShutdown(cfg *config.Config, srv *httpserver.Server, dispatcher *alert.Dispatcher, db *mongo.Database) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		dispatcher.Stop()

		if err := db.Client().Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from database", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	db := setupMongo(cfg)

	donorRepo := mongoadapter.NewDonorRepo(db)
	hospitalRepo := mongoadapter.NewHospitalRepo(db)
	requestRepo := mongoadapter.NewRequestRepo(db)
	userRepo := mongoadapter.NewUserRepo(db)
	alertRepo := mongoadapter.NewAlertRepo(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, clock)

	onPresence := func(donorID string, online bool) {
		err := donorRepo.SetPresence(context.Background(), donorID, online)
		if errors.Is(err, domain.ErrDonorNotFound) {
			slog.Debug("Presence change for unknown donor", "donor_id", donorID)
			return
		}
		if err != nil {
			slog.Error("Failed to update donor presence", "donor_id", donorID, "error", err)
		}
	}
	dispatcher := alert.NewDispatcher(onPresence, clock)

	srv := httpserver.NewServer(cfg, httpserver.Deps{
		Donors:     donorRepo,
		Hospitals:  hospitalRepo,
		Requests:   requestRepo,
		Users:      userRepo,
		Alerts:     alertRepo,
		Dispatcher: dispatcher,
		Tokens:     tokens,
		Health: []httpserver.HealthCheck{
			{Name: "mongo", Check: mongoadapter.HealthCheck(db)},
		},
	})

	done := runGracefulShutdown(cfg, srv, dispatcher, db)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
