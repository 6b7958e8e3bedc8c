package ratelimit

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

// Global throttles the whole HTTP surface with a single token bucket. Per-user
// limits are enforced deeper, by the order service.
func Global(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				zapLogger.Warn(r.Context(), "global rate limit exceeded", zap.String("path", r.URL.Path))

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
