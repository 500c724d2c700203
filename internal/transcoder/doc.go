// Package transcoder cuts clips using FFmpeg.
//
// It supports:
//   - Extracting a start/duration segment re-encoded to H.264 + AAC in MP4
//   - Probing duration, codecs and dimensions with ffprobe
//   - Killing in-flight ffmpeg processes on shutdown
//
// FFmpeg and ffprobe must be installed and available in the system PATH,
// or configured with explicit paths.
package transcoder
