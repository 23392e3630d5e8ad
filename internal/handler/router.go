package handler

import (
	"net/http"

	"smartnotes-server/internal/middleware"
	"smartnotes-server/internal/ratelimit"
	"smartnotes-server/pkg/logger"
	"smartnotes-server/pkg/response"

	"github.com/gorilla/mux"
)

type CORSOptions struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Handlers bundles everything NewRouter mounts. RateLimiter and WebSocket may
// be nil to disable those features.
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Note      *NoteHandler
	AI        *AIHandler
	WebSocket *WebSocketHandler
	Health    *HealthHandler

	TokenValidator middleware.TokenValidator
	RateLimiter    *ratelimit.RateLimiter
	Logger         *logger.Logger
	CORS           CORSOptions
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestIDMiddleware(h.Logger))
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.CORSMiddleware(
		h.CORS.AllowedOrigins,
		h.CORS.AllowedMethods,
		h.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Auth.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(h.TokenValidator))

	protected.HandleFunc("/users/me", h.User.GetMe).Methods("GET", "OPTIONS")

	protected.HandleFunc("/notes", h.Note.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes", h.Note.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/search", h.Note.Search).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", h.Note.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", h.Note.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}", h.Note.Delete).Methods("DELETE", "OPTIONS")

	aiRoutes := protected.PathPrefix("/ai").Subrouter()
	if h.RateLimiter != nil {
		aiRoutes.Use(ratelimit.Middleware(h.RateLimiter, middleware.GetUserID))
	}
	aiRoutes.HandleFunc("/summary", h.AI.Summary).Methods("POST", "OPTIONS")
	aiRoutes.HandleFunc("/improve", h.AI.Improve).Methods("POST", "OPTIONS")
	aiRoutes.HandleFunc("/tags", h.AI.Tags).Methods("POST", "OPTIONS")
	aiRoutes.HandleFunc("/models", h.AI.Models).Methods("GET", "OPTIONS")

	if h.WebSocket != nil {
		r.HandleFunc("/ws", h.WebSocket.HandleConnection).Methods("GET")
	}

	r.HandleFunc("/health", h.Health.Health).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found")
	})

	return r
}
