package cli

import (
	"fmt"
	"io"

	"video-cutter/internal/fetcher"
	"video-cutter/internal/logging"
	"video-cutter/internal/startup"
	"video-cutter/internal/transcoder"

	"github.com/spf13/cobra"
)

// Install hints shown for missing tools.
var installURLs = map[string]string{
	"ffmpeg":  "https://ffmpeg.org/download.html",
	"ffprobe": "https://ffmpeg.org/download.html",
	"yt-dlp":  "https://github.com/yt-dlp/yt-dlp#installation",
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check external tool dependencies",
	Long:  `Check that ffmpeg, ffprobe and yt-dlp are installed and runnable with the configured paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := startup.ReadConfig()
		trans := transcoder.New(config.FFmpegPath, config.FFprobePath)
		ytdlp := fetcher.New(fetcher.WithBinary(config.YTDLPPath))

		// Startup-style log lines would duplicate the report below.
		prev := logging.GetLevel()
		logging.SetLevel(logging.LevelError)
		statuses := startup.CheckTools(
			startup.ToolCheck{Name: "ffmpeg", Verify: trans.VerifyInstalled},
			startup.ToolCheck{Name: "ffprobe", Verify: startup.VersionProbe(config.FFprobePath, "-version")},
			startup.ToolCheck{Name: "yt-dlp", Verify: ytdlp.VerifyInstalled},
		)
		logging.SetLevel(prev)

		if !PrintDoctorReport(cmd.OutOrStdout(), statuses) {
			return fmt.Errorf("some dependencies are missing")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// PrintDoctorReport writes one line per tool and reports whether all are available.
func PrintDoctorReport(out io.Writer, statuses []startup.ToolStatus) bool {
	fmt.Fprintln(out, headerStyle.Render("Checking dependencies..."))
	fmt.Fprintln(out)

	allGood := true
	for _, s := range statuses {
		if s.Available {
			fmt.Fprintf(out, "%s %s %s\n", okMark(), nameStyle.Render(s.Name), dimStyle.Render(s.Version))
			continue
		}
		allGood = false
		fmt.Fprintf(out, "%s %s %s\n", failMark(), nameStyle.Render(s.Name), failStyle.Render("NOT AVAILABLE"))
		if s.Error != "" {
			fmt.Fprintf(out, "  %s\n", s.Error)
		}
		if url, ok := installURLs[s.Name]; ok {
			fmt.Fprintf(out, "  Install from: %s\n", url)
		}
	}

	fmt.Fprintln(out)
	if allGood {
		fmt.Fprintln(out, okStyle.Render("All dependencies are installed!"))
	} else {
		fmt.Fprintln(out, failStyle.Render("Some dependencies are missing. Please install them to use all features."))
	}
	return allGood
}
