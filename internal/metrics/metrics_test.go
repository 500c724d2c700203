package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"ClipsTotal", ClipsTotal},
		{"ClipRequestDuration", ClipRequestDuration},
		{"ClipOutputBytes", ClipOutputBytes},
		{"FetchAttemptsTotal", FetchAttemptsTotal},
		{"FetchAttemptDuration", FetchAttemptDuration},
		{"TranscoderJobsTotal", TranscoderJobsTotal},
		{"TranscoderJobDuration", TranscoderJobDuration},
		{"TranscoderJobsInProgress", TranscoderJobsInProgress},
		{"ScratchDirsActive", ScratchDirsActive},
		{"ScratchCleanupErrors", ScratchCleanupErrors},
		{"AppInfo", AppInfo},
		{"ToolAvailable", ToolAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics([]string{"init-test-a", "init-test-b"})

	for _, s := range []string{"init-test-a", "init-test-b"} {
		for _, outcome := range FetchOutcomes {
			if got := testutil.ToFloat64(FetchAttemptsTotal.WithLabelValues(s, outcome)); got != 0 {
				t.Errorf("FetchAttemptsTotal{%s,%s} = %v, want 0", s, outcome, got)
			}
		}
	}

	// One series per source kind and outcome, plus whatever other tests created.
	if n := testutil.CollectAndCount(ClipsTotal); n < len(SourceKinds)*len(ClipOutcomes) {
		t.Errorf("ClipsTotal has %d series, want at least %d", n, len(SourceKinds)*len(ClipOutcomes))
	}
}

func TestFetchObserver(t *testing.T) {
	obs := NewFetchObserver()
	before := testutil.ToFloat64(FetchAttemptsTotal.WithLabelValues("observer-test", "bot_check"))

	obs.ObserveAttempt("observer-test", "bot_check", 1.5)
	obs.ObserveAttempt("observer-test", "bot_check", 0.5)

	after := testutil.ToFloat64(FetchAttemptsTotal.WithLabelValues("observer-test", "bot_check"))
	if after-before != 2 {
		t.Errorf("expected 2 recorded attempts, got %v", after-before)
	}
}

func TestSetToolAvailable(t *testing.T) {
	SetToolAvailable("tool-test", true)
	if got := testutil.ToFloat64(ToolAvailable.WithLabelValues("tool-test")); got != 1 {
		t.Errorf("ToolAvailable = %v, want 1", got)
	}
	SetToolAvailable("tool-test", false)
	if got := testutil.ToFloat64(ToolAvailable.WithLabelValues("tool-test")); got != 0 {
		t.Errorf("ToolAvailable = %v, want 0", got)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.0.0", "abc123", "go1.25")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.0.0", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}
