package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware rejects requests with 429 once the shared token bucket
// is empty. It returns nil when rate limiting is disabled.
func rateLimitMiddleware() func(http.Handler) http.Handler {
	if rateLimitRPS <= 0 {
		return nil
	}
	burst := rateLimitBurst
	if burst < 1 {
		burst = int(rateLimitRPS)
		if burst < 1 {
			burst = 1
		}
	}
	limiter := rate.NewLimiter(rate.Limit(rateLimitRPS), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				IncrementBackpressure("rate_limit")
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
