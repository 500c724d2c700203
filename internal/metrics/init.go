package metrics

// Label values pre-populated by InitializeMetrics.
var (
	SourceKinds   = []string{"upload", "remote", "unknown"}
	ClipOutcomes  = []string{"success", "invalid_request", "source_unavailable", "transcode_error", "internal"}
	FetchOutcomes = []string{"success", "bot_check", "unavailable", "no_formats", "no_file", "error"}
)

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// strategies are the names of the configured fetch fallback strategies.
func InitializeMetrics(strategies []string) {
	for _, src := range SourceKinds {
		for _, outcome := range ClipOutcomes {
			ClipsTotal.WithLabelValues(src, outcome)
		}
		ClipRequestDuration.WithLabelValues(src)
	}

	for _, s := range strategies {
		for _, outcome := range FetchOutcomes {
			FetchAttemptsTotal.WithLabelValues(s, outcome)
		}
		FetchAttemptDuration.WithLabelValues(s)
	}

	for _, status := range []string{"success", "error"} {
		TranscoderJobsTotal.WithLabelValues(status)
	}
}
