// Package handlers provides the HTTP request handlers of the video cutter API.
//
// It includes handlers for:
//   - POST /cut-video: clip an uploaded file or a remote video
//   - GET /: API description
//   - GET /health and /livez: health and liveness probes
//   - GET /version: build information
//   - GET /metrics: Prometheus metrics
//
// Errors are returned as JSON:
//
//	{"error": "invalid_request", "detail": "start must be before end"}
package handlers
