// Package metrics provides Prometheus instrumentation for video-cutter.
//
// All metrics are prefixed with "video_cutter_" and registered on the default
// registry through promauto, so promhttp.Handler() exposes them directly.
//
// # Metric Categories
//
// HTTP: request totals by method/path/status, duration histogram, in-flight gauge.
//
// Clips: requests by source kind ("upload", "remote") and outcome, end-to-end
// duration, output size.
//
// Fetch: attempts by fallback strategy and outcome ("success", "bot_check",
// "unavailable", "no_formats", "no_file", "error") and attempt duration.
//
// Transcoder: jobs by status, job duration, jobs in progress.
//
// Scratch: active per-request directories, cleanup failures.
//
// Application: build info and external tool availability.
package metrics
