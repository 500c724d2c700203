// Package middleware provides HTTP middleware for the video cutter service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - Request IDs (X-Request-ID)
//   - CORS for browser front-ends (github.com/rs/cors)
//
// CORS must wrap the router itself so that preflight OPTIONS requests are
// answered before method matching rejects them.
package middleware
