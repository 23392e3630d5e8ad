package handler

import (
	"context"
	"net/http"
	"time"

	"smartnotes-server/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		response.Success(w, HealthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Storage: "unreachable"})
		return
	}

	response.Success(w, HealthResponse{Status: "ok", Storage: "ok"})
}
