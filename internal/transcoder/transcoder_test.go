package transcoder

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	trans := New("", "")

	if trans == nil {
		t.Fatal("New() returned nil")
	}
	if trans.ffmpegPath != "ffmpeg" {
		t.Errorf("Expected ffmpegPath=ffmpeg, got %s", trans.ffmpegPath)
	}
	if trans.ffprobePath != "ffprobe" {
		t.Errorf("Expected ffprobePath=ffprobe, got %s", trans.ffprobePath)
	}
	if trans.processes == nil {
		t.Error("Expected processes map to be initialized")
	}

	custom := New("/opt/ffmpeg", "/opt/ffprobe")
	if custom.ffmpegPath != "/opt/ffmpeg" || custom.ffprobePath != "/opt/ffprobe" {
		t.Errorf("custom paths not kept: %s %s", custom.ffmpegPath, custom.ffprobePath)
	}
}

func TestBuildClipArgs(t *testing.T) {
	got := buildClipArgs("/tmp/in.webm", "/tmp/out.mp4", 10, 20.5)
	want := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", "10.000",
		"-i", "/tmp/in.webm",
		"-t", "20.500",
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"/tmp/out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildClipArgs() =\n%v\nwant\n%v", got, want)
	}
}

func TestParseProbe(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080},
			{"codec_type": "video", "codec_name": "mjpeg", "width": 320, "height": 180}
		],
		"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.345000"}
	}`)

	info, err := parseProbe(data)
	if err != nil {
		t.Fatalf("parseProbe() error: %v", err)
	}

	want := &VideoInfo{
		Duration: 12.345,
		Width:    1920,
		Height:   1080,
		Codec:    "h264",
		Audio:    "aac",
		Format:   "mov,mp4,m4a,3gp,3g2,mj2",
	}
	if !reflect.DeepEqual(info, want) {
		t.Errorf("parseProbe() = %+v, want %+v", info, want)
	}
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", "{"},
		{"invalid duration", `{"format": {"duration": "abc"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProbe([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClipInvalidDuration(t *testing.T) {
	trans := New("", "")
	err := trans.Clip(context.Background(), "in.mp4", "out.mp4", 5, 0)
	if !errors.Is(err, ErrTranscode) {
		t.Errorf("expected ErrTranscode, got %v", err)
	}
}

func TestClipMissingBinary(t *testing.T) {
	trans := New(filepath.Join(t.TempDir(), "no-such-ffmpeg"), "")
	err := trans.Clip(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "out.mp4"), 0, 1)
	if !errors.Is(err, ErrTranscode) {
		t.Errorf("expected ErrTranscode, got %v", err)
	}
	if trans.ActiveJobs() != 0 {
		t.Errorf("expected no tracked processes after failure, got %d", trans.ActiveJobs())
	}
}

// fakeFFmpeg writes a shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClipNoOutputFile(t *testing.T) {
	trans := New(fakeFFmpeg(t, "exit 0"), "")
	err := trans.Clip(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "out.mp4"), 0, 1)
	if !errors.Is(err, ErrTranscode) {
		t.Fatalf("expected ErrTranscode, got %v", err)
	}
}

func TestClipReportsFailure(t *testing.T) {
	trans := New(fakeFFmpeg(t, "echo 'Invalid data found when processing input' >&2; exit 1"), "")
	err := trans.Clip(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "out.mp4"), 0, 1)
	if !errors.Is(err, ErrTranscode) {
		t.Fatalf("expected ErrTranscode, got %v", err)
	}
}

func TestClipSucceedsWhenOutputWritten(t *testing.T) {
	// The output path is the last argument.
	trans := New(fakeFFmpeg(t, `for last; do :; done; echo clip > "$last"`), "")
	out := filepath.Join(t.TempDir(), "out.mp4")
	if err := trans.Clip(context.Background(), "in.mp4", out, 0, 1); err != nil {
		t.Fatalf("Clip() error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}

func TestCleanupNoProcesses(t *testing.T) {
	trans := New("", "")
	trans.Cleanup()
	if trans.ActiveJobs() != 0 {
		t.Errorf("expected 0 active jobs, got %d", trans.ActiveJobs())
	}
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found, skipping integration test")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found, skipping integration test")
	}
}

func generateTestVideo(t *testing.T, seconds int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.mp4")
	dur := formatSeconds(float64(seconds))
	cmd := exec.Command("ffmpeg", "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=160x120:rate=25:duration="+dur,
		"-f", "lavfi", "-i", "sine=frequency=440:duration="+dur,
		"-c:v", "libx264", "-preset", "ultrafast", "-c:a", "aac", "-shortest",
		path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not generate test video (libx264 missing?): %v: %s", err, out)
	}
	return path
}

func TestClipDurationMatchesRange(t *testing.T) {
	requireFFmpeg(t)
	source := generateTestVideo(t, 10)
	trans := New("", "")
	ctx := context.Background()

	tests := []struct {
		name  string
		start float64
		end   float64
	}{
		{"from start", 0, 3},
		{"middle", 2, 5.5},
		{"to end", 7, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "clip.mp4")
			if err := trans.Clip(ctx, source, out, tt.start, tt.end-tt.start); err != nil {
				t.Fatalf("Clip() error: %v", err)
			}

			info, err := trans.Probe(ctx, out)
			if err != nil {
				t.Fatalf("Probe() error: %v", err)
			}

			want := tt.end - tt.start
			if diff := info.Duration - want; diff > 0.25 || diff < -0.25 {
				t.Errorf("clip duration = %.3f, want %.3f (+/-0.25)", info.Duration, want)
			}
			if info.Codec != "h264" {
				t.Errorf("clip codec = %q, want h264", info.Codec)
			}
			if info.Audio != "aac" {
				t.Errorf("clip audio = %q, want aac", info.Audio)
			}
		})
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"Short", "error\n", 10, "error"},
		{"Truncated ASCII", "0123456789", 3, "...789"},
		{"Cut inside rune", "Invalid data in «vidéo»", 8, "...vidéo»"},
		{"Only continuation bytes left", "ab€", 2, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tail(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("tail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("tail(%q, %d) = %q is not valid UTF-8", tt.in, tt.n, got)
			}
		})
	}
}
