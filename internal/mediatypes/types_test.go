package mediatypes

import (
	"testing"
)

func TestIsVideoUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{
			name:        "video mp4",
			contentType: "video/mp4",
			filename:    "clip.mp4",
			want:        true,
		},
		{
			name:        "video type wins over extension",
			contentType: "video/webm",
			filename:    "clip.bin",
			want:        true,
		},
		{
			name:        "video type with parameters",
			contentType: "video/mp4; codecs=avc1",
			filename:    "clip",
			want:        true,
		},
		{
			name:        "octet-stream with video extension",
			contentType: "application/octet-stream",
			filename:    "talk.MKV",
			want:        true,
		},
		{
			name:        "octet-stream without video extension",
			contentType: "application/octet-stream",
			filename:    "notes.txt",
			want:        false,
		},
		{
			name:        "missing content type falls back to extension",
			contentType: "",
			filename:    "movie.mov",
			want:        true,
		},
		{
			name:        "image type rejected",
			contentType: "image/png",
			filename:    "frame.mp4",
			want:        false,
		},
		{
			name:        "text type rejected",
			contentType: "text/plain",
			filename:    "clip.mp4",
			want:        false,
		},
		{
			name:        "malformed content type",
			contentType: "video/mp4;;=",
			filename:    "clip.mp4",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsVideoUpload(tt.contentType, tt.filename)
			if got != tt.want {
				t.Errorf("IsVideoUpload(%q, %q) = %v, want %v", tt.contentType, tt.filename, got, tt.want)
			}
		})
	}
}

func TestIsDownloadedVideo(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Some Title.mp4", true},
		{"Some Title.webm", true},
		{"Some Title.MKV", true},
		{"Some Title.mp4.part", false},
		{"Some Title.f137.mp4.ytdl", false},
		{"Some Title.jpg", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDownloadedVideo(tt.name); got != tt.want {
				t.Errorf("IsDownloadedVideo(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".mp4", "video/mp4"},
		{".mkv", "video/x-matroska"},
		{".webm", "video/webm"},
		{".xyz", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetMimeType(tt.ext); got != tt.want {
				t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestExt(t *testing.T) {
	if got := Ext("/tmp/A.MP4"); got != ".mp4" {
		t.Errorf("Ext() = %q, want .mp4", got)
	}
	if got := Ext("noext"); got != "" {
		t.Errorf("Ext() = %q, want empty", got)
	}
}

func TestClipMimeTypeIsKnown(t *testing.T) {
	if GetMimeType(".mp4") != ClipMimeType {
		t.Errorf("ClipMimeType %q does not match the .mp4 entry", ClipMimeType)
	}
}
