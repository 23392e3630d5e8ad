package middleware

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"smartnotes-server/pkg/logger"
	"smartnotes-server/pkg/response"
)

const RequestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// requestState lets handlers deeper in the chain report the authenticated
// user back to the access log.
type requestState struct {
	userID string
}

type requestStateKeyType struct{}

var requestStateKey = requestStateKeyType{}

func setRequestUser(ctx context.Context, userID string) {
	if st, ok := ctx.Value(requestStateKey).(*requestState); ok {
		st.userID = userID
	}
}

// RequestIDMiddleware honours an incoming X-Request-ID or generates one.
// A nil base leaves logging to the global logger.
func RequestIDMiddleware(base *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = logger.GenerateRequestID()
			}

			ctx := logger.NewRequestIDContext(r.Context(), requestID)
			if base != nil {
				ctx = logger.NewContext(ctx, base)
			}
			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LoggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			st := &requestState{}
			ctx := context.WithValue(r.Context(), requestStateKey, st)

			next.ServeHTTP(rw, r.WithContext(ctx))

			userID := st.userID
			if userID == "" {
				userID = "anonymous"
			}

			logger.Log(ctx).Info(ctx, "http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", rw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("user_id", userID),
			)
		})
	}
}

// RecoveryMiddleware turns a handler panic into a logged, generic 500.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					ctx := r.Context()
					logger.Log(ctx).Error(ctx, "panic recovered",
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
					)
					response.InternalError(w, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
