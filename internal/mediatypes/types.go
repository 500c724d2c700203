package mediatypes

import (
	"mime"
	"path/filepath"
	"strings"
)

// VideoExtensions maps file extensions to the MIME type used for them.
var VideoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

// DownloadExtensions are the containers yt-dlp is expected to leave behind.
var DownloadExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
}

// ClipMimeType is the content type of every produced clip.
const ClipMimeType = "video/mp4"

// Ext returns the lowercase extension of name, including the leading dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsVideoExtension reports whether ext (lowercase, with dot) is a known video container.
func IsVideoExtension(ext string) bool {
	_, ok := VideoExtensions[ext]
	return ok
}

// IsDownloadedVideo reports whether name looks like a finished yt-dlp download.
func IsDownloadedVideo(name string) bool {
	return DownloadExtensions[Ext(name)]
}

// IsVideoUpload decides whether an uploaded part is a video. A video/*
// content type is accepted as-is. Generic binary types, or a missing
// content type, fall back to the file name's extension.
func IsVideoUpload(contentType, filename string) bool {
	mediaType := ""
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return false
		}
		mediaType = parsed
	}

	switch {
	case strings.HasPrefix(mediaType, "video/"):
		return true
	case mediaType == "", mediaType == "application/octet-stream":
		return IsVideoExtension(Ext(filename))
	default:
		return false
	}
}

// GetMimeType returns the MIME type for ext, or application/octet-stream.
func GetMimeType(ext string) string {
	if m, ok := VideoExtensions[ext]; ok {
		return m
	}
	return "application/octet-stream"
}
