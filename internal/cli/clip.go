package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"video-cutter/internal/clipper"
	"video-cutter/internal/fetcher"
	"video-cutter/internal/mediatypes"
	"video-cutter/internal/memory"
	"video-cutter/internal/metrics"
	"video-cutter/internal/source"
	"video-cutter/internal/startup"
	"video-cutter/internal/timecode"
	"video-cutter/internal/transcoder"

	"github.com/spf13/cobra"
)

// ClipOptions are the inputs of a one-off clip run.
type ClipOptions struct {
	URL    string
	File   string
	Start  string
	End    string
	Output string
}

var clipOpts ClipOptions

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Cut a clip locally without starting the server",
	Long: `Cut a time range out of a local file or a remote URL and write it as MP4.
Exactly one of --file and --url is required. Timestamps accept SS, MM:SS
and HH:MM:SS, each with optional fractional seconds.

Example:
  video-cutter clip --file match.mkv --start 12:30 --end 12:45.5
  video-cutter clip --url "https://www.youtube.com/watch?v=..." --start 0:10 --end 0:30 --out clips/`,
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)
	clipCmd.Flags().StringVar(&clipOpts.URL, "url", "", "remote video URL fetched with yt-dlp")
	clipCmd.Flags().StringVar(&clipOpts.File, "file", "", "local video file")
	clipCmd.Flags().StringVar(&clipOpts.Start, "start", "", "start timestamp (required)")
	clipCmd.Flags().StringVar(&clipOpts.End, "end", "", "end timestamp (required)")
	clipCmd.Flags().StringVarP(&clipOpts.Output, "out", "o", "", "output file or directory (default: generated name in the current directory)")
	clipCmd.Flags().StringVar(&strategiesFile, "strategies", "", "YAML file with fetch strategies")
	clipCmd.MarkFlagRequired("start")
	clipCmd.MarkFlagRequired("end")
}

// ClipService is the part of clipper.Service the clip command uses.
type ClipService interface {
	NewSource(upload *source.Upload, locator string) (source.Source, error)
	Clip(ctx context.Context, req clipper.Request) (*clipper.Result, error)
}

// Prober reports stream details of a written clip.
type Prober interface {
	Probe(ctx context.Context, filePath string) (*transcoder.VideoInfo, error)
}

func runClip(cmd *cobra.Command, args []string) error {
	config := startup.ReadConfig()
	if cmd.Flags().Changed("strategies") {
		config.StrategiesFile = strategiesFile
	}

	strategies, err := loadStrategies(config.StrategiesFile)
	if err != nil {
		return fmt.Errorf("failed to load fetch strategies: %w", err)
	}
	metrics.InitializeMetrics(fetcher.Names(strategies))

	trans := transcoder.New(config.FFmpegPath, config.FFprobePath)
	ytdlp := fetcher.New(
		fetcher.WithBinary(config.YTDLPPath),
		fetcher.WithStrategies(strategies),
	)
	svc := clipper.New(trans, ytdlp, config.ScratchDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunClipWithDependencies(ctx, svc, trans, clipOpts, cmd.OutOrStdout())
}

// RunClipWithDependencies runs the clip command with injected dependencies (for testing).
// prober may be nil.
func RunClipWithDependencies(ctx context.Context, svc ClipService, prober Prober, opts ClipOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rng, err := timecode.ParseList([]string{opts.Start, opts.End})
	if err != nil {
		return err
	}

	var upload *source.Upload
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()

		name := filepath.Base(opts.File)
		upload = &source.Upload{
			Filename:    name,
			ContentType: mediatypes.GetMimeType(mediatypes.Ext(name)),
			Body:        f,
		}
	}

	src, err := svc.NewSource(upload, opts.URL)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Cutting %s from %s source...\n", dimStyle.Render("»"), rng, src.Kind())

	result, err := svc.Clip(ctx, clipper.Request{Range: rng, Source: src})
	if err != nil {
		return err
	}

	path, err := outputPath(opts.Output, result.Filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write clip: %w", err)
	}

	fmt.Fprintf(out, "%s Wrote %s (%s)\n", okMark(), path, memory.FormatBytes(result.Size()))

	if prober != nil {
		info, err := prober.Probe(ctx, path)
		if err != nil {
			fmt.Fprintf(out, "  %s\n", dimStyle.Render("probe failed: "+err.Error()))
			return nil
		}
		fmt.Fprintf(out, "  duration %.3fs, %dx%d %s", info.Duration, info.Width, info.Height, info.Codec)
		if info.Audio != "" {
			fmt.Fprintf(out, " + %s", info.Audio)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// outputPath resolves --out: empty means the generated name in the working
// directory, an existing directory receives the generated name.
func outputPath(out, generated string) (string, error) {
	if out == "" {
		return generated, nil
	}
	info, err := os.Stat(out)
	if err == nil && info.IsDir() {
		return filepath.Join(out, generated), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check output path: %w", err)
	}
	return out, nil
}
