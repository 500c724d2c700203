// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is read from environment variables via [ReadConfig] and
// validated by [LoadConfig]. Command-line flags are applied through the
// override callback passed to [LoadConfig]. Supported variables:
//
//   - PORT: HTTP server port (default: 8000)
//   - SCRATCH_DIR: Root for per-request scratch directories (default: os.TempDir())
//   - MAX_UPLOAD_SIZE: Request body limit in bytes (default: 2 GiB)
//   - YTDLP_PATH: yt-dlp binary (default: yt-dlp)
//   - FFMPEG_PATH: ffmpeg binary (default: ffmpeg)
//   - FFPROBE_PATH: ffprobe binary (default: ffprobe)
//   - STRATEGIES_FILE: YAML file with fetch strategies (default: built-in list)
//   - CORS_ORIGINS: Comma separated allowed origins (default: localhost:3000, localhost:3001)
//   - METRICS_ENABLED: Expose /metrics (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//
// # External Tools
//
// [CheckTools] probes ffmpeg, ffprobe and yt-dlp at startup. Missing tools
// are logged as warnings and reported by the health endpoint.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Example Usage
//
//	config, err := startup.LoadConfig(nil)
//	if err != nil {
//	    return fmt.Errorf("configuration error: %w", err)
//	}
//
//	tools := startup.CheckTools(
//	    startup.ToolCheck{Name: "ffmpeg", Verify: trans.VerifyInstalled},
//	    startup.ToolCheck{Name: "ffprobe", Verify: startup.VersionProbe(config.FFprobePath, "-version")},
//	)
//
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
package startup
