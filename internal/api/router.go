package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/handler"
	"github.com/m4dpr0f/cjsr-sub004/internal/api/middleware"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/lobby"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/prompt"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
	"github.com/m4dpr0f/cjsr-sub004/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Registry      *lobby.Registry
	HubManager    *ws.HubManager
	PromptService *prompt.Service
	Storage       storage.Storage
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.Storage)
	promptHandler := handler.NewPromptHandler(cfg.PromptService, cfg.Storage)
	wsHandler := ws.NewHandler(cfg.Registry, cfg.HubManager, cfg.Logger)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Room routes (read-only; racing happens over the websocket)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{room_id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{room_id}/results", roomHandler.Results).Methods(http.MethodGet)

	// Prompt pool management
	api.HandleFunc("/prompts", promptHandler.Load).Methods(http.MethodPost)
	api.HandleFunc("/prompts", promptHandler.Count).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Realtime race connection. Kept off the API middleware chain so the
	// upgrade path stays unwrapped; recovery still applies.
	realtime := r.PathPrefix("/ws").Subrouter()
	realtime.Use(recoveryMiddleware)
	realtime.Handle("/{room_id}", wsHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
