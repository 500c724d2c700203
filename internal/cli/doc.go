// Package cli implements the video-cutter command line.
//
// Commands:
//
//   - serve (default): run the HTTP server
//   - clip: cut one clip locally without the server
//   - strategies: print the fetch fallback order, optionally as YAML
//   - doctor: check that ffmpeg, ffprobe and yt-dlp are runnable
//   - version: print build information
//
// All commands read the same environment variables as the server; flags
// override them for the current invocation only.
package cli
