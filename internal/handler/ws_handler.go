package handler

import (
	"context"
	"net/http"
	"strings"

	"smartnotes-server/internal/middleware"
	"smartnotes-server/internal/websocket"
	"smartnotes-server/pkg/logger"
	"smartnotes-server/pkg/response"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	validator middleware.TokenValidator
	upgrader  ws.Upgrader
	// ctx outlives any single request and stops the pumps at shutdown.
	ctx context.Context
}

type UpgraderOptions struct {
	ReadBufferSize  int
	WriteBufferSize int
	// AllowedOrigins is the comma-separated CORS list; "*" or empty allows any origin.
	AllowedOrigins string
}

func NewWebSocketHandler(ctx context.Context, manager *websocket.Manager, validator middleware.TokenValidator, opts UpgraderOptions) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		validator: validator,
		ctx:       ctx,
		upgrader: ws.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

func originChecker(allowedOrigins string) func(*http.Request) bool {
	allowed := make(map[string]bool)
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
	}
}

// HandleConnection accepts the access token as a ?token= query parameter,
// since browsers cannot set headers on a websocket handshake. A Bearer header
// or the session cookie also work.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.TokenFromRequest(r)
	}
	if token == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	userID, err := h.validator.ValidateAccessToken(token)
	if err != nil {
		logger.Log(ctx).Debug(ctx, "websocket token rejected", zap.Error(err))
		response.Unauthorized(w, "Unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log(ctx).Warn(ctx, "failed to upgrade websocket connection", zap.Error(err))
		return
	}

	client := websocket.NewClient(uuid.New().String(), userID, conn, h.manager)

	select {
	case h.manager.Register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	connCtx := logger.NewContext(h.ctx, logger.Log(ctx).With(zap.String("user_id", userID)))
	go client.WritePump()
	go client.ReadPump(connCtx)
}
