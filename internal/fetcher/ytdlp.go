package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"video-cutter/internal/logging"
	"video-cutter/internal/mediatypes"
)

var (
	// ErrAllAttemptsFailed is returned when every configured strategy was rejected.
	ErrAllAttemptsFailed = errors.New("all fetch attempts failed")

	// ErrNoFormats means the host returned metadata without any downloadable format.
	ErrNoFormats = errors.New("no video formats available for this URL")

	// ErrNoFile means yt-dlp reported success but left no video file behind.
	ErrNoFile = errors.New("download produced no video file")
)

// Attempt outcomes, also used as metric labels.
const (
	OutcomeSuccess     = "success"
	OutcomeBotCheck    = "bot_check"
	OutcomeUnavailable = "unavailable"
	OutcomeNoFormats   = "no_formats"
	OutcomeNoFile      = "no_file"
	OutcomeError       = "error"
)

// Observer is notified after every strategy attempt.
type Observer interface {
	ObserveAttempt(strategy, outcome string, durationSeconds float64)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, string, float64) {}

// Metadata is the subset of yt-dlp's JSON info dict the fetcher reads.
type Metadata struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Duration float64           `json:"duration"`
	Formats  []json.RawMessage `json:"formats"`
}

// Result describes a successfully fetched source.
type Result struct {
	Path     string
	Title    string
	Strategy string
	Metadata Metadata
}

// AttemptError records why a single strategy was abandoned.
type AttemptError struct {
	Strategy string
	Outcome  string
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("strategy %q (%s): %v", e.Strategy, e.Outcome, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// YTDLP fetches remote videos with the yt-dlp binary, walking an ordered
// list of strategies until one yields both metadata and a file.
type YTDLP struct {
	binary     string
	strategies []Strategy
	runner     CommandRunner
	observer   Observer
}

// Option configures a YTDLP fetcher.
type Option func(*YTDLP)

// WithBinary sets a custom yt-dlp executable path.
func WithBinary(path string) Option {
	return func(y *YTDLP) {
		if path != "" {
			y.binary = path
		}
	}
}

// WithStrategies replaces the built-in strategy list.
func WithStrategies(strategies []Strategy) Option {
	return func(y *YTDLP) {
		if len(strategies) > 0 {
			y.strategies = strategies
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner CommandRunner) Option {
	return func(y *YTDLP) {
		y.runner = runner
	}
}

// WithObserver sets the attempt observer, normally the metrics package.
func WithObserver(o Observer) Option {
	return func(y *YTDLP) {
		if o != nil {
			y.observer = o
		}
	}
}

// New creates a yt-dlp fetcher using DefaultStrategies unless overridden.
func New(opts ...Option) *YTDLP {
	y := &YTDLP{
		binary:     "yt-dlp",
		strategies: DefaultStrategies(),
		runner:     ExecRunner{},
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Strategies returns the configured fallback order.
func (y *YTDLP) Strategies() []Strategy {
	return y.strategies
}

// VerifyInstalled checks that the yt-dlp binary can be executed.
func (y *YTDLP) VerifyInstalled(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(y.binary); err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", y.binary, err)
	}
	stdout, _, err := y.runner.Run(ctx, y.binary, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", y.binary, err)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// Fetch downloads locator into dir. Each strategy works in its own
// sub-directory which is removed when the attempt is abandoned.
func (y *YTDLP) Fetch(ctx context.Context, locator, dir string) (*Result, error) {
	var lastErr error

	for i, s := range y.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch cancelled: %w", err)
		}

		logging.Info("Fetching %s with strategy %q (%d/%d)", locator, s.Name, i+1, len(y.strategies))
		start := time.Now()

		result, err := y.attempt(ctx, s, locator, dir)
		elapsed := time.Since(start).Seconds()

		if err == nil {
			y.observer.ObserveAttempt(s.Name, OutcomeSuccess, elapsed)
			logging.Info("Fetched %q with strategy %q in %.1fs", result.Title, s.Name, elapsed)
			return result, nil
		}

		var attemptErr *AttemptError
		outcome := OutcomeError
		if errors.As(err, &attemptErr) {
			outcome = attemptErr.Outcome
		}
		y.observer.ObserveAttempt(s.Name, outcome, elapsed)
		logging.Warn("Fetch attempt %q failed: %v", s.Name, err)
		lastErr = err
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%w: no strategies configured", ErrAllAttemptsFailed)
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrAllAttemptsFailed, len(y.strategies), lastErr)
}

func (y *YTDLP) attempt(ctx context.Context, s Strategy, locator, dir string) (*Result, error) {
	workDir, err := os.MkdirTemp(dir, "fetch-"+sanitizeDirName(s.Name)+"-")
	if err != nil {
		return nil, &AttemptError{Strategy: s.Name, Outcome: OutcomeError, Err: err}
	}

	result, err := y.run(ctx, s, locator, workDir)
	if err != nil {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logging.Warn("failed to remove abandoned attempt directory %s: %v", workDir, rmErr)
		}
		return nil, err
	}
	return result, nil
}

func (y *YTDLP) run(ctx context.Context, s Strategy, locator, workDir string) (*Result, error) {
	fail := func(outcome string, err error) error {
		return &AttemptError{Strategy: s.Name, Outcome: outcome, Err: err}
	}

	metaArgs := append([]string{"--dump-single-json", "--skip-download", "--no-playlist", "--no-warnings"}, s.Args()...)
	metaArgs = append(metaArgs, "--", locator)

	stdout, stderr, err := y.runner.Run(ctx, y.binary, metaArgs...)
	if err != nil {
		return nil, fail(Classify(string(stderr)), fmt.Errorf("metadata: %w: %s", err, tail(stderr, 400)))
	}

	var meta Metadata
	if err := json.Unmarshal(stdout, &meta); err != nil {
		return nil, fail(OutcomeError, fmt.Errorf("metadata: invalid JSON from %s: %w", y.binary, err))
	}
	if len(meta.Formats) == 0 {
		return nil, fail(OutcomeNoFormats, ErrNoFormats)
	}

	outTpl := filepath.Join(workDir, "%(title)s.%(ext)s")
	dlArgs := append([]string{"--no-playlist", "--no-progress", "--no-warnings", "-o", outTpl}, s.Args()...)
	dlArgs = append(dlArgs, "--", locator)

	if _, stderr, err := y.runner.Run(ctx, y.binary, dlArgs...); err != nil {
		return nil, fail(Classify(string(stderr)), fmt.Errorf("download: %w: %s", err, tail(stderr, 400)))
	}

	path, err := findVideoFile(workDir)
	if err != nil {
		return nil, fail(OutcomeNoFile, err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = "video"
	}

	return &Result{
		Path:     path,
		Title:    title,
		Strategy: s.Name,
		Metadata: meta,
	}, nil
}

// Classify maps yt-dlp error output to an attempt outcome.
func Classify(stderr string) string {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "sign in to confirm"), strings.Contains(lower, "bot"):
		return OutcomeBotCheck
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "not available"),
		strings.Contains(lower, "http error 404"):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

func findVideoFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read download directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if mediatypes.IsDownloadedVideo(e.Name()) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", ErrNoFile
}

func sanitizeDirName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// tail keeps at most the last n bytes, cut on a rune boundary.
func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		i := len(s) - n
		for i < len(s) && !utf8.RuneStart(s[i]) {
			i++
		}
		s = "..." + s[i:]
	}
	return s
}
