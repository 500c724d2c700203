package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-cutter/internal/clipper"
	"video-cutter/internal/fetcher"
	"video-cutter/internal/handlers"
	"video-cutter/internal/logging"
	"video-cutter/internal/memory"
	"video-cutter/internal/metrics"
	"video-cutter/internal/middleware"
	"video-cutter/internal/scratch"
	"video-cutter/internal/startup"
	"video-cutter/internal/transcoder"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var (
	servePort       string
	serveScratchDir string
	strategiesFile  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Configuration is read from environment variables
(PORT, SCRATCH_DIR, MAX_UPLOAD_SIZE, STRATEGIES_FILE, ...); flags override them.`,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&servePort, "port", "", "HTTP port (overrides PORT)")
	cmd.Flags().StringVar(&serveScratchDir, "scratch-dir", "", "scratch directory root (overrides SCRATCH_DIR)")
	cmd.Flags().StringVar(&strategiesFile, "strategies", "", "YAML file with fetch strategies (overrides STRATEGIES_FILE)")
}

func serveOverrides(cmd *cobra.Command) func(*startup.Config) {
	return func(c *startup.Config) {
		if cmd.Flags().Changed("port") {
			c.Port = servePort
		}
		if cmd.Flags().Changed("scratch-dir") {
			c.ScratchDir = serveScratchDir
		}
		if cmd.Flags().Changed("strategies") {
			c.StrategiesFile = strategiesFile
		}
	}
}

// loadStrategies reads path, or returns the built-in list when path is empty.
func loadStrategies(path string) ([]fetcher.Strategy, error) {
	if path == "" {
		return fetcher.DefaultStrategies(), nil
	}
	return fetcher.LoadStrategies(path)
}

// app is the fully wired server.
type app struct {
	server     *http.Server
	transcoder *transcoder.Transcoder
}

func newApp(config *startup.Config) (*app, error) {
	strategies, err := loadStrategies(config.StrategiesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch strategies: %w", err)
	}
	names := fetcher.Names(strategies)
	startup.LogStrategies(names, config.StrategiesFile)

	metrics.InitializeMetrics(names)
	info := startup.GetBuildInfo()
	metrics.SetAppInfo(info.Version, info.Commit, info.GoVersion)

	trans := transcoder.New(config.FFmpegPath, config.FFprobePath)
	ytdlp := fetcher.New(
		fetcher.WithBinary(config.YTDLPPath),
		fetcher.WithStrategies(strategies),
		fetcher.WithObserver(metrics.NewFetchObserver()),
	)

	tools := startup.CheckTools(
		startup.ToolCheck{Name: "ffmpeg", Verify: trans.VerifyInstalled},
		startup.ToolCheck{Name: "ffprobe", Verify: startup.VersionProbe(config.FFprobePath, "-version")},
		startup.ToolCheck{Name: "yt-dlp", Verify: ytdlp.VerifyInstalled},
	)

	svc := clipper.New(trans, ytdlp, config.ScratchDir)
	h := handlers.New(svc, config, tools)

	handler, router := NewHTTPHandler(h, config)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	return &app{server: newServer(":"+config.Port, handler), transcoder: trans}, nil
}

// newServer bounds only the header read. Uploads may stream for as long as
// the client needs, and clip downloads have no write deadline.
func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// NewHTTPHandler builds the router for h and wraps it in the server's
// middleware chain. The bare router is returned for route logging.
func NewHTTPHandler(h *handlers.Handlers, config *startup.Config) (http.Handler, *mux.Router) {
	router := setupRouter(h, config.MetricsEnabled)
	return wrapHandler(router, config), router
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/cut-video", h.CutVideo).Methods("POST")

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	return r
}

// wrapHandler applies the middleware that must see every request, matched
// or not. CORS sits directly on the router so preflight requests for POST
// routes are answered before method matching.
func wrapHandler(router http.Handler, config *startup.Config) http.Handler {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = config.CORSOrigins
	handler := middleware.CORS(corsConfig)(router)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	return middleware.RequestID(handler)
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	memResult := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig(serveOverrides(cmd))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	startup.LogMemoryConfig(memResult)

	removed, err := scratch.Sweep(config.ScratchDir)
	startup.LogScratchSweep(removed, err)

	a, err := newApp(config)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.handleShutdown()
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	return nil
}

func (a *app) handleShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	signal.Stop(sigChan)

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := a.server.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping running ffmpeg processes")
	a.transcoder.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Removing scratch directories")
	if _, err := scratch.ReleaseAll(); err != nil {
		logging.Warn("Scratch cleanup error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Scratch directories removed")
	}

	startup.LogShutdownComplete()
}
