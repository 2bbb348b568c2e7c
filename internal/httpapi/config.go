package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Default remains 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// requestTimeout bounds train and predict calls, which run backend code.
// Zero means no additional timeout beyond server/connection timeouts.
var requestTimeout time.Duration

// SetRequestTimeoutSeconds sets the train/predict timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = time.Duration(sec) * time.Second
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// Rate limiting of /models routes (opt-in). rps <= 0 disables it.
var (
	rateLimitRPS   float64
	rateLimitBurst int
)

// SetRateLimit configures the token bucket shared by all /models requests.
// A burst below 1 defaults to max(1, rps).
func SetRateLimit(rps float64, burst int) {
	rateLimitRPS = rps
	rateLimitBurst = burst
}
