package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_cutter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_cutter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_cutter_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Clip request metrics
var (
	ClipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_cutter_clips_total",
			Help: "Total number of clip requests by source kind and outcome",
		},
		[]string{"source", "outcome"},
	)

	ClipRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_cutter_clip_request_duration_seconds",
			Help:    "End-to-end clip request duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"source"},
	)

	ClipOutputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_cutter_clip_output_bytes",
			Help:    "Size of produced clips in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 10), // 64KiB .. 16GiB
		},
	)
)

// Fetch metrics
var (
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_cutter_fetch_attempts_total",
			Help: "Total number of remote fetch attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	FetchAttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_cutter_fetch_attempt_duration_seconds",
			Help:    "Remote fetch attempt duration in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"strategy"},
	)
)

// Transcoder metrics
var (
	TranscoderJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_cutter_transcoder_jobs_total",
			Help: "Total number of clip transcoding jobs",
		},
		[]string{"status"},
	)

	TranscoderJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_cutter_transcoder_job_duration_seconds",
			Help:    "Clip transcoding job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	TranscoderJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_cutter_transcoder_jobs_in_progress",
			Help: "Number of transcoding jobs currently in progress",
		},
	)
)

// Scratch storage metrics
var (
	ScratchDirsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_cutter_scratch_dirs_active",
			Help: "Number of per-request scratch directories currently on disk",
		},
	)

	ScratchCleanupErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_cutter_scratch_cleanup_errors_total",
			Help: "Total number of scratch directories that could not be removed",
		},
	)
)

// Application info metrics
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_cutter_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)

	ToolAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_cutter_tool_available",
			Help: "Whether an external tool was found at startup (1 = found, 0 = missing)",
		},
		[]string{"tool"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// SetToolAvailable records whether an external binary is usable.
func SetToolAvailable(tool string, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	ToolAvailable.WithLabelValues(tool).Set(v)
}
