// Package mediatypes holds the video container tables shared by the upload
// source and the remote fetcher.
//
// It has no dependencies on other internal packages so both can import it
// without cycles.
//
// # Upload detection
//
// IsVideoUpload accepts any video/* content type. Browsers and curl often
// send application/octet-stream, or nothing, for a file part; in that case
// the file name's extension decides:
//
//	mediatypes.IsVideoUpload("video/webm", "clip.bin")                // true
//	mediatypes.IsVideoUpload("application/octet-stream", "talk.mkv") // true
//	mediatypes.IsVideoUpload("image/png", "frame.mp4")               // false
//
// # Downloads
//
// DownloadExtensions lists the containers yt-dlp leaves behind for the
// format selectors used by the fetcher (.mp4, .webm, .mkv).
package mediatypes
