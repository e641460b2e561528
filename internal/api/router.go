package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	_ "contactdeck/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"contactdeck/internal/api/handlers"
	"contactdeck/internal/api/middleware"
	"contactdeck/internal/config"
	"github.com/rs/cors"
)

const requestTimeout = 10 * time.Second

func SetupRouter(h *handlers.Handler, guard *middleware.AuthGuard) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /register", h.Register)
	authMux.HandleFunc("POST /login", h.Login)
	authMux.HandleFunc("GET /google/login", h.GoogleLogin)
	authMux.HandleFunc("GET /google/callback", h.GoogleCallback)

	mainMux.Handle("/api/auth/",
		http.StripPrefix("/api/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("/contacts", h.Contacts)
	protectedMux.HandleFunc("POST /contacts/{id}/avatar/presign", h.PresignAvatarUpload)
	protectedMux.HandleFunc("POST /contacts/{id}/avatar/complete", h.CompleteAvatarUpload)
	protectedMux.HandleFunc("GET /contacts/{id}/avatar", h.GetAvatarURL)
	protectedMux.HandleFunc("GET /users/profile", h.Profile)

	mainMux.Handle("/api/",
		http.StripPrefix(
			"/api",
			guard.Handler(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Timeout(requestTimeout)(handler)
	handler = middleware.Logger(handler)
	return handler
}
