// Package main provides the entry point for the Video Cutter service.
//
// Video Cutter is a small HTTP API that cuts a time range out of a video and
// returns it as an MP4 attachment. The source is either an uploaded file or a
// remote URL that is downloaded with yt-dlp; clips are re-encoded with ffmpeg
// (H.264 video, AAC audio) so cuts are frame accurate.
//
// # Application Lifecycle
//
//  1. Memory Configuration: Sets GOMEMLIMIT from GOMEMLIMIT or MEMORY_LIMIT
//  2. Configuration Loading: Reads environment variables, applies flags and
//     validates the scratch directory
//  3. Scratch Sweep: Removes directories left behind by a previous process
//  4. Component Initialization:
//     - Fetch strategies from STRATEGIES_FILE or the built-in list
//     - Transcoder (ffmpeg/ffprobe) and yt-dlp fetcher
//     - External tool checks, reported on /health
//  5. HTTP Server Setup: Routes, CORS, request IDs, W3C access log, metrics
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM
//
// # Request Flow
//
// Every request to POST /cut-video gets its own scratch directory. The
// source is resolved into it (upload written to disk, or remote fetch with
// the strategy fallback), the clip is encoded next to it, read into memory
// and the directory is removed before the response is written.
//
// # Graceful Shutdown
//
//  1. Stop accepting new HTTP requests and wait for in-flight ones (30s timeout)
//  2. Kill any ffmpeg processes still running
//  3. Remove remaining scratch directories
//
// # Commands
//
//	video-cutter [serve]    run the server (default)
//	video-cutter clip       cut one clip locally
//	video-cutter strategies print the fetch fallback order
//	video-cutter doctor     check ffmpeg, ffprobe and yt-dlp
//	video-cutter version    print build information
//
// # Build
//
//	go build -ldflags "-X video-cutter/internal/startup.Version=1.0.0" -o video-cutter ./cmd/video-cutter
//
// # Related Packages
//
//   - [video-cutter/internal/cli]: Cobra commands and server wiring
//   - [video-cutter/internal/clipper]: Clip orchestration and error kinds
//   - [video-cutter/internal/fetcher]: yt-dlp fetch strategies
//   - [video-cutter/internal/handlers]: HTTP request handlers
//   - [video-cutter/internal/middleware]: CORS, request IDs, logging, metrics
//   - [video-cutter/internal/startup]: Configuration and lifecycle logging
//   - [video-cutter/internal/transcoder]: FFmpeg clip extraction
package main
