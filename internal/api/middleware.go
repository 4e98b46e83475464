package api

import (
	"net/http"
	"time"

	"github.com/contentloop/repurpose/internal/logging"
	"github.com/rs/zerolog/log"
)

const (
	corsAllowOrigin      = "Access-Control-Allow-Origin"
	corsAllowMethods     = "Access-Control-Allow-Methods"
	corsAllowHeaders     = "Access-Control-Allow-Headers"
	corsAllowCredentials = "Access-Control-Allow-Credentials"
	allowedMethods       = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders       = "Content-Type, Authorization, Stripe-Signature"
	allowedCredentials   = "true"
	internalServerError  = "Internal server error"
)

// statusRecorder captures the status code written by the handler so the
// request event can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware opens a wide event for the request, lets the handlers
// enrich it, and emits it once when the response is written.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		event := logging.NewWideEvent("http_request")
		ctx := logging.WithContext(r.Context(), event)
		logging.EnrichHTTP(ctx, r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.EnrichHTTPResult(ctx, rec.status, time.Since(start))
		logging.Emit(ctx)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("panic", err).Str("uri", r.RequestURI).Msg("Panic recovered")
				logging.EnrichPanic(r.Context())
				http.Error(w, internalServerError, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(corsAllowOrigin, allowedOrigin)
			w.Header().Set(corsAllowMethods, allowedMethods)
			w.Header().Set(corsAllowHeaders, allowedHeaders)
			w.Header().Set(corsAllowCredentials, allowedCredentials)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
