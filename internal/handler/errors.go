package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"smartnotes-server/internal/domain"
	"smartnotes-server/pkg/logger"
	"smartnotes-server/pkg/response"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// decodeJSON reads a single JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errInvalidBody
	}
	return nil
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and answered with fallback as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, vErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "Note not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		response.Unauthorized(w, "Unauthorized")
	case errors.Is(err, domain.ErrEmailTaken):
		response.Conflict(w, "Email already registered")
	default:
		ctx := r.Context()
		logger.Log(ctx).Error(ctx, fallback,
			zap.String("path", r.URL.Path),
			zap.Error(err))
		response.InternalError(w, fallback)
	}
}
