package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"contactdeck/internal/api"
	"contactdeck/internal/api/handlers"
	"contactdeck/internal/api/middleware"
	"contactdeck/internal/api/services"
	"contactdeck/internal/config"
	"contactdeck/internal/repositories"
)

// @title ContactDeck API
// @version 1.0
// @description Contact management backend: token-based auth and per-user contact CRUD.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	db, err := repositories.Connect(config.Envs.DBURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	userRepo := repositories.NewUserRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	// Avatar storage is optional; routes answer 500 when unconfigured.
	// The interface stays nil unless R2 is actually set up.
	var avatars handlers.AvatarStorage
	if config.Envs.R2.AccountID != "" {
		avatars = repositories.NewAvatarStore(config.Envs.R2)
	}

	tokens := services.NewTokenService(config.Envs.JWTSecret, services.TokenTTL)
	auth := services.NewAuthService(userRepo)
	contacts := services.NewContactService(contactRepo)
	google := services.NewGoogleOauthConfig(config.Envs.Google)

	h := handlers.New(auth, contacts, tokens, avatars, google, config.Envs.FrontendURL)
	guard := middleware.NewAuthGuard(tokens)

	mux := api.SetupRouter(h, guard)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting ContactDeck server on port: %s", config.Envs.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", config.Envs.Port, err)
	}
}
