package metrics

// FetchObserver records remote fetch attempts. It satisfies fetcher.Observer
// without this package importing fetcher.
type FetchObserver struct{}

// NewFetchObserver creates an observer backed by the fetch metrics in metrics.go.
func NewFetchObserver() *FetchObserver {
	return &FetchObserver{}
}

// ObserveAttempt records one strategy attempt.
func (o *FetchObserver) ObserveAttempt(strategy, outcome string, durationSeconds float64) {
	FetchAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
	FetchAttemptDuration.WithLabelValues(strategy).Observe(durationSeconds)
}
