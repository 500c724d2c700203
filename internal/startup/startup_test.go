package startup

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.value)
			if got := getEnvBool("TEST_BOOL_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt64(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"", 42},
		{"1024", 1024},
		{"-5", -5},
		{"12MB", 42},
		{"9223372036854775808", 42},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.value)
			if got := getEnvInt64("TEST_INT_VAR", 42); got != tt.want {
				t.Errorf("getEnvInt64(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	defaults := []string{"a", "b"}

	tests := []struct {
		value string
		want  []string
	}{
		{"", []string{"a", "b"}},
		{"http://x", []string{"http://x"}},
		{" http://x , http://y ,", []string{"http://x", "http://y"}},
		{" , ", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_LIST_VAR", tt.value)
			got := getEnvList("TEST_LIST_VAR", defaults)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("getEnvList(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	got := getEnvList("TEST_LIST_VAR_UNSET", defaults)
	got[0] = "changed"
	if defaults[0] != "a" {
		t.Error("getEnvList returned the default slice itself")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SCRATCH_DIR", "MAX_UPLOAD_SIZE", "YTDLP_PATH", "FFMPEG_PATH",
		"FFPROBE_PATH", "STRATEGIES_FILE", "CORS_ORIGINS", "METRICS_ENABLED", "LOG_HEALTH_CHECKS",
	} {
		t.Setenv(key, "")
	}
}

func TestReadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	config := ReadConfig()

	if config.Port != "8000" {
		t.Errorf("Port = %q, want 8000", config.Port)
	}
	if config.ScratchDir != os.TempDir() {
		t.Errorf("ScratchDir = %q, want %q", config.ScratchDir, os.TempDir())
	}
	if config.MaxUploadSize != DefaultMaxUploadSize {
		t.Errorf("MaxUploadSize = %d, want %d", config.MaxUploadSize, DefaultMaxUploadSize)
	}
	if config.YTDLPPath != "yt-dlp" || config.FFmpegPath != "ffmpeg" || config.FFprobePath != "ffprobe" {
		t.Errorf("unexpected tool paths: %q %q %q", config.YTDLPPath, config.FFmpegPath, config.FFprobePath)
	}
	if config.StrategiesFile != "" {
		t.Errorf("StrategiesFile = %q, want empty", config.StrategiesFile)
	}
	if !reflect.DeepEqual(config.CORSOrigins, DefaultCORSOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", config.CORSOrigins, DefaultCORSOrigins)
	}
	if !config.MetricsEnabled || !config.LogHealthChecks {
		t.Error("metrics and health check logging should default to enabled")
	}
}

func TestReadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9001")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")
	t.Setenv("METRICS_ENABLED", "false")

	config := ReadConfig()

	if config.Port != "9001" {
		t.Errorf("Port = %q, want 9001", config.Port)
	}
	if config.MaxUploadSize != 1<<20 {
		t.Errorf("MaxUploadSize = %d, want %d", config.MaxUploadSize, 1<<20)
	}
	if config.FFmpegPath != "/opt/ffmpeg" {
		t.Errorf("FFmpegPath = %q", config.FFmpegPath)
	}
	if !reflect.DeepEqual(config.CORSOrigins, []string{"https://app.example.com"}) {
		t.Errorf("CORSOrigins = %v", config.CORSOrigins)
	}
	if config.MetricsEnabled {
		t.Error("MetricsEnabled should be false")
	}
}

func TestLoadConfigCreatesScratchDir(t *testing.T) {
	clearConfigEnv(t)
	dir := filepath.Join(t.TempDir(), "scratch")
	t.Setenv("SCRATCH_DIR", dir)

	config, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.ScratchDir != dir {
		t.Errorf("ScratchDir = %q, want %q", config.ScratchDir, dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("scratch directory not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("write test file was not removed")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SCRATCH_DIR", t.TempDir())
	t.Setenv("PORT", "9001")

	config, err := LoadConfig(func(c *Config) {
		c.Port = "9100"
		c.StrategiesFile = "strategies.yaml"
	})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != "9100" {
		t.Errorf("Port = %q, want override 9100", config.Port)
	}
	if config.StrategiesFile != "strategies.yaml" {
		t.Errorf("StrategiesFile = %q", config.StrategiesFile)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"zero upload size", map[string]string{"MAX_UPLOAD_SIZE": "0"}},
		{"negative upload size", map[string]string{"MAX_UPLOAD_SIZE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("SCRATCH_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadConfig(nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigScratchIsFile(t *testing.T) {
	clearConfigEnv(t)
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCRATCH_DIR", file)

	if _, err := LoadConfig(nil); err == nil {
		t.Error("expected error when scratch path is a file")
	}
}

func TestCheckTools(t *testing.T) {
	statuses := CheckTools(
		ToolCheck{Name: "good", Verify: func(context.Context) (string, error) { return "good 1.0", nil }},
		ToolCheck{Name: "bad", Verify: func(context.Context) (string, error) { return "", errors.New("not found") }},
	)

	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Version != "good 1.0" {
		t.Errorf("unexpected status for good tool: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Error != "not found" {
		t.Errorf("unexpected status for bad tool: %+v", statuses[1])
	}
}

func TestVersionProbeMissingBinary(t *testing.T) {
	verify := VersionProbe("/nonexistent/video-cutter-tool", "-version")
	if _, err := verify(context.Background()); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestGetRoutes(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}

	router := mux.NewRouter()
	router.HandleFunc("/cut-video", noop).Methods("POST").Name("cut-video")
	router.HandleFunc("/livez", noop).Methods("GET", "HEAD")
	router.HandleFunc("/metrics", noop)

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}

	want := []RouteInfo{
		{Method: "POST", Path: "/cut-video", Name: "cut-video"},
		{Method: "GET", Path: "/livez"},
		{Method: "HEAD", Path: "/livez"},
		{Method: "*", Path: "/metrics"},
	}
	if !reflect.DeepEqual(routes, want) {
		t.Errorf("GetRoutes() = %+v, want %+v", routes, want)
	}
}
