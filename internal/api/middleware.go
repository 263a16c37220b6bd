package api

import (
	"log/slog"
	"net/http"

	"payment-gateway/internal/logging"

	"github.com/google/uuid"
)

// CORSMiddleware answers preflight requests with 200 and attaches permissive
// CORS headers to everything else, since the storefront runs on a different
// origin than the gateway.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware puts a correlation id into the log context for every
// request so all log lines of one request can be grouped.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.AppendCtx(r.Context(), slog.String("requestId", uuid.New().String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
