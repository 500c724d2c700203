package handlers

import "net/http"

// RootResponse describes the API on GET /.
type RootResponse struct {
	Message string `json:"message"`
	Usage   string `json:"usage"`
}

// Root returns a short description of the API.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, RootResponse{
		Message: "YouTube Video Cutter API",
		Usage:   "POST /cut-video with youtube_url and timeCode [start, end] (JSON), or video_file, timeCode and youtubeVideoUrl (multipart)",
	})
}
