package cli

import (
	"fmt"
	"os"

	"video-cutter/internal/logging"
	"video-cutter/internal/startup"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "video-cutter",
	Short: "Cut clips out of uploaded or remote videos over HTTP",
	Long: `video-cutter serves a small HTTP API that cuts a time range out of a
video and returns it as MP4. The source is either an uploaded file or a
remote URL fetched with yt-dlp; clips are encoded with ffmpeg.

Running without a subcommand starts the server.

Example:
  video-cutter serve --port 8000
  video-cutter clip --url "https://www.youtube.com/watch?v=..." --start 1:05 --end 1:20`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			logging.SetLevel(logging.ParseLevel("", logLevel))
		}
	},
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		info := startup.GetBuildInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "video-cutter version %s (commit %s, built %s, %s %s/%s)\n",
			info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
