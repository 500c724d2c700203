package middleware

import (
	"net/http"
	"strings"

	"video-cutter/internal/logging"

	"github.com/rs/cors"
)

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows the local front-end dev servers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

type corsLogger struct{}

func (corsLogger) Printf(format string, args ...interface{}) {
	logging.Debug("[cors] "+format, args...)
}

// CORS returns a middleware applying config. Requests from origins not in
// the list get no CORS headers, so browsers block them. Any request header
// is accepted. A "*" origin accepts every origin and echoes it back, which
// keeps credentialed requests working.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   config.AllowedMethods,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", "Content-Length", RequestIDHeader},
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	}

	origins := make([]string, 0, len(config.AllowedOrigins))
	allowAll := false
	for _, o := range config.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if allowAll {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}

	if logging.IsDebugEnabled() {
		opts.Debug = true
		opts.Logger = corsLogger{}
	}

	return cors.New(opts).Handler
}
