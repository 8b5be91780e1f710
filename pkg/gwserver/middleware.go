package gwserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodPut,
		},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	return c.Handler
}

// RateLimit applies one shared token bucket to every request.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				RateLimited(w, r.URL.Path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type ErrorLogger interface {
	Error(context.Context, string, ...slog.Attr)
}

// Recover turns a handler panic into an internal error response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(logger ErrorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}

				if p == http.ErrAbortHandler {
					panic(p)
				}

				logger.Error(r.Context(), "handler panic",
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprint(p)),
				)
				InternalError(w, r.URL.Path)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
