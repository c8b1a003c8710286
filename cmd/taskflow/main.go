package main

import (
	"log"

	"github.com/Arhamhir/Taskflow/db"
	"github.com/Arhamhir/Taskflow/internal/auth"
	"github.com/Arhamhir/Taskflow/internal/config"
	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/handlers"
	"github.com/Arhamhir/Taskflow/internal/middleware"
	"github.com/Arhamhir/Taskflow/internal/router"
	"github.com/Arhamhir/Taskflow/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	cfg := config.Load()

	if err := db.EnsureDatabase(cfg.DatabaseURL); err != nil {
		log.Printf("Warning: could not ensure database exists: %v", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Migration failures are warnings so the process still starts; the
	// first request fails instead.
	if err := db.Migrate(gdb); err != nil {
		log.Printf("Warning: could not create database tables on startup: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	if err != nil {
		log.Fatalf("Failed to configure token service: %v", err)
	}

	svc := domain.NewService(store.New(gdb), auth.NewPasswordHasher(cfg.BcryptCost))
	h := handlers.New(svc, tokens)
	r := router.NewRouter(h, middleware.Auth(tokens, svc))

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
