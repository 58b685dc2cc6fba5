package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "tripmate-backend/internal/api/http"
	"tripmate-backend/internal/config"
	"tripmate-backend/internal/logger"
	"tripmate-backend/internal/repository/postgres"
	"tripmate-backend/internal/security"
	"tripmate-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tripmate Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenVerifier := security.NewTokenVerifier(cfg.JWT.Secret)

	tripSvc := service.NewTripService(
		store,
		store.TripRepository,
		store.MembershipRepository,
		store.ItineraryRepository,
		store.OutboxRepository,
	)
	joinSvc := service.NewJoinRequestService(
		store,
		store.TripRepository,
		store.JoinRequestRepository,
		store.MembershipRepository,
		store.OutboxRepository,
	)

	router := httpapi.NewRouter(tripSvc, joinSvc, tokenVerifier)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
