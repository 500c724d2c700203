package transcoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"video-cutter/internal/logging"
	"video-cutter/internal/metrics"
)

// ErrTranscode is returned when ffmpeg fails or produces no output.
var ErrTranscode = errors.New("transcode failed")

// Transcoder cuts clips out of source videos with FFmpeg.
type Transcoder struct {
	ffmpegPath  string
	ffprobePath string
	processes   map[string]*exec.Cmd
	processMu   sync.Mutex
}

// VideoInfo contains information about a video file.
type VideoInfo struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Codec    string  `json:"codec"`
	Audio    string  `json:"audio,omitempty"`
	Format   string  `json:"format"`
}

// New creates a Transcoder. Empty paths default to "ffmpeg" and "ffprobe" on PATH.
func New(ffmpegPath, ffprobePath string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Transcoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		processes:   make(map[string]*exec.Cmd),
	}
}

// VerifyInstalled checks that ffmpeg can be executed and returns its version line.
func (t *Transcoder) VerifyInstalled(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(t.ffmpegPath); err != nil {
		return "", fmt.Errorf("%s not found in PATH", t.ffmpegPath)
	}
	output, err := exec.CommandContext(ctx, t.ffmpegPath, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get ffmpeg version: %w", err)
	}
	line, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(line), nil
}

// buildClipArgs returns the ffmpeg arguments for a re-encoded H.264/AAC MP4 clip.
// -ss before -i seeks the input, -t bounds the output duration.
func buildClipArgs(input, output string, start, duration float64) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-i", input,
		"-t", formatSeconds(duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		output,
	}
}

// Clip writes the [start, start+duration) segment of input to output.
func (t *Transcoder) Clip(ctx context.Context, input, output string, start, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("%w: invalid duration %s", ErrTranscode, formatSeconds(duration))
	}

	args := buildClipArgs(input, output, start, duration)
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	metrics.TranscoderJobsInProgress.Inc()
	defer metrics.TranscoderJobsInProgress.Dec()
	begin := time.Now()

	t.processMu.Lock()
	t.processes[output] = cmd
	t.processMu.Unlock()

	defer func() {
		t.processMu.Lock()
		delete(t.processes, output)
		t.processMu.Unlock()
	}()

	logging.Debug("Running %s %s", t.ffmpegPath, strings.Join(args, " "))
	err := cmd.Run()
	metrics.TranscoderJobDuration.Observe(time.Since(begin).Seconds())

	if err != nil {
		metrics.TranscoderJobsTotal.WithLabelValues("error").Inc()
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrTranscode, ctx.Err())
		}
		logging.Error("FFmpeg stderr: %s", stderr.String())
		return fmt.Errorf("%w: %v: %s", ErrTranscode, err, tail(stderr.String(), 400))
	}

	info, statErr := os.Stat(output)
	if statErr != nil || info.Size() == 0 {
		metrics.TranscoderJobsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: no output file produced", ErrTranscode)
	}

	metrics.TranscoderJobsTotal.WithLabelValues("success").Inc()
	logging.Debug("Clip written: %s (%d bytes, %v)", output, info.Size(), time.Since(begin))
	return nil
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Probe retrieves duration, codec and dimension information about a video file.
func (t *Transcoder) Probe(ctx context.Context, filePath string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	return parseProbe(stdout.Bytes())
}

func parseProbe(data []byte) (*VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{Format: out.Format.FormatName}
	if out.Format.Duration != "" {
		d, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", out.Format.Duration, err)
		}
		info.Duration = d
	}

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.Codec == "" {
				info.Codec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			if info.Audio == "" {
				info.Audio = s.CodecName
			}
		}
	}

	return info, nil
}

// Cleanup stops all active transcoding processes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for path, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("Killing transcoding process for: %s", path)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill transcoding process for %s: %v", path, err)
			}
		}
	}
}

// ActiveJobs returns the number of ffmpeg processes currently running.
func (t *Transcoder) ActiveJobs() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// tail keeps at most the last n bytes, cut on a rune boundary.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		i := len(s) - n
		for i < len(s) && !utf8.RuneStart(s[i]) {
			i++
		}
		s = "..." + s[i:]
	}
	return s
}
