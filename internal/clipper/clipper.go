package clipper

import (
	"context"
	"fmt"
	"os"
	"time"

	"video-cutter/internal/logging"
	"video-cutter/internal/mediatypes"
	"video-cutter/internal/metrics"
	"video-cutter/internal/scratch"
	"video-cutter/internal/source"
	"video-cutter/internal/timecode"
)

const clipName = "clip.mp4"

// Transcoder extracts [start, start+duration) of input into output.
type Transcoder interface {
	Clip(ctx context.Context, input, output string, start, duration float64) error
}

// Request is one clip job: a time range and exactly one source.
type Request struct {
	Range  timecode.Range
	Source source.Source
}

// Result is a finished clip held in memory.
type Result struct {
	Data        []byte
	Filename    string
	Title       string
	ContentType string
}

// Size returns the clip length in bytes.
func (r *Result) Size() int64 {
	return int64(len(r.Data))
}

// Service runs the resolve, transcode, read sequence for clip requests.
type Service struct {
	transcoder  Transcoder
	fetcher     source.Fetcher
	scratchRoot string
}

// New creates a Service. scratchRoot may be empty to use the OS temp dir.
func New(t Transcoder, f source.Fetcher, scratchRoot string) *Service {
	return &Service{
		transcoder:  t,
		fetcher:     f,
		scratchRoot: scratchRoot,
	}
}

// NewSource selects the request's source. Selection errors are InvalidRequest.
func (s *Service) NewSource(upload *source.Upload, locator string) (source.Source, error) {
	src, err := source.New(upload, locator, s.fetcher)
	if err != nil {
		return nil, Classify(err)
	}
	return src, nil
}

// Clip resolves the source into a fresh scratch directory, cuts the range
// and returns the encoded clip. The scratch directory is removed before
// Clip returns, whatever the outcome.
func (s *Service) Clip(ctx context.Context, req Request) (*Result, error) {
	kind := "unknown"
	if req.Source != nil {
		kind = req.Source.Kind()
	}
	start := time.Now()

	result, err := s.clip(ctx, req)

	metrics.ClipsTotal.WithLabelValues(kind, Outcome(err)).Inc()
	metrics.ClipRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, Classify(err)
	}

	metrics.ClipOutputBytes.Observe(float64(result.Size()))
	logging.Info("Clip %s ready: %s (%d bytes, %v)", req.Range, result.Filename, result.Size(), time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (s *Service) clip(ctx context.Context, req Request) (*Result, error) {
	if req.Source == nil {
		return nil, source.ErrNoSource
	}
	if req.Range.Start < 0 || req.Range.Start >= req.Range.End {
		return nil, fmt.Errorf("%w (start=%s, end=%s)", timecode.ErrInvalidRange,
			timecode.FormatSeconds(req.Range.Start), timecode.FormatSeconds(req.Range.End))
	}

	dir, err := scratch.Acquire(s.scratchRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Release logs and counts its own failures.
		_ = dir.Release()
	}()

	resolved, err := req.Source.Resolve(ctx, dir.Path())
	if err != nil {
		return nil, err
	}
	logging.Debug("Source resolved: %s (%q)", resolved.Path, resolved.Title)

	output := dir.Join(clipName)
	if err := s.transcoder.Clip(ctx, resolved.Path, output, req.Range.Start, req.Range.Duration()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip: %w", err)
	}

	return &Result{
		Data:        data,
		Filename:    Filename(resolved.Title, req.Range),
		Title:       resolved.Title,
		ContentType: mediatypes.ClipMimeType,
	}, nil
}
