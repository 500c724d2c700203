package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"video-cutter/internal/clipper"
	"video-cutter/internal/logging"
	"video-cutter/internal/memory"
	"video-cutter/internal/source"
	"video-cutter/internal/timecode"
)

// Multipart form field names.
const (
	fieldVideoFile = "video_file"
	fieldTimeCode  = "timeCode"
	fieldVideoURL  = "youtubeVideoUrl"
)

// Parts above this size are spooled to disk by the multipart parser.
const multipartMemory = 32 << 20

// CutVideoRequest is the JSON form of a cut request.
type CutVideoRequest struct {
	YoutubeURL string   `json:"youtube_url"`
	TimeCode   []string `json:"timeCode"`
}

// CutVideo clips either an uploaded file or a remote video and returns
// the result as an MP4 attachment.
//
// Accepted bodies:
//
//	application/json:    {"youtube_url": "...", "timeCode": ["00:00:10", "00:00:20"]}
//	multipart/form-data: video_file (file), timeCode ("00:00:10,00:00:20"), youtubeVideoUrl
func (h *Handlers) CutVideo(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	req, cleanup, err := h.parseCutRequest(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		h.writeCutError(w, err)
		return
	}

	result, err := h.clipper.Clip(r.Context(), req)
	if err != nil {
		h.writeCutError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(result.Size(), 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Data); err != nil {
		logging.Warn("failed to write clip %s: %v", result.Filename, err)
	}
}

// parseCutRequest builds a clipper.Request from the body. The returned
// cleanup func, when non-nil, removes multipart temp files.
func (h *Handlers) parseCutRequest(r *http.Request) (clipper.Request, func(), error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return clipper.Request{}, nil, clipper.NewError(clipper.InvalidRequest, "missing or malformed Content-Type", err)
	}

	switch mediaType {
	case "application/json":
		req, err := h.parseJSON(r)
		return req, nil, err
	case "multipart/form-data":
		return h.parseMultipart(r)
	default:
		return clipper.Request{}, nil, clipper.NewError(clipper.InvalidRequest,
			"unsupported Content-Type "+mediaType+", use application/json or multipart/form-data", nil)
	}
}

func (h *Handlers) parseJSON(r *http.Request) (clipper.Request, error) {
	var body CutVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if tooLarge(err) {
			return clipper.Request{}, err
		}
		return clipper.Request{}, clipper.NewError(clipper.InvalidRequest, "invalid JSON body", err)
	}

	rng, err := timecode.ParseList(body.TimeCode)
	if err != nil {
		return clipper.Request{}, err
	}

	src, err := h.clipper.NewSource(nil, body.YoutubeURL)
	if err != nil {
		return clipper.Request{}, err
	}
	return clipper.Request{Range: rng, Source: src}, nil
}

func (h *Handlers) parseMultipart(r *http.Request) (clipper.Request, func(), error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			return clipper.Request{}, nil, err
		}
		return clipper.Request{}, nil, clipper.NewError(clipper.InvalidRequest, "invalid multipart body", err)
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Warn("failed to remove multipart temp files: %v", err)
		}
	}

	rng, err := timecode.ParsePair(r.FormValue(fieldTimeCode))
	if err != nil {
		return clipper.Request{}, cleanup, err
	}

	var upload *source.Upload
	file, header, err := r.FormFile(fieldVideoFile)
	switch {
	case err == nil:
		upload = &source.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
		prev := cleanup
		cleanup = func() {
			_ = file.Close()
			prev()
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		return clipper.Request{}, cleanup, clipper.NewError(clipper.InvalidRequest, "invalid "+fieldVideoFile+" part", err)
	}

	src, err := h.clipper.NewSource(upload, r.FormValue(fieldVideoURL))
	if err != nil {
		return clipper.Request{}, cleanup, err
	}
	return clipper.Request{Range: rng, Source: src}, cleanup, nil
}

func (h *Handlers) writeCutError(w http.ResponseWriter, err error) {
	if tooLarge(err) {
		logging.Warn("cut-video rejected: body exceeds %s", memory.FormatBytes(h.maxUploadSize))
		writeJSONError(w, string(clipper.InvalidRequest),
			"request body exceeds the "+memory.FormatBytes(h.maxUploadSize)+" limit", http.StatusRequestEntityTooLarge)
		return
	}

	ce := clipper.Classify(err)
	status := ce.Kind.Status()
	if status >= http.StatusInternalServerError {
		logging.Error("cut-video failed: %v", err)
	} else {
		logging.Warn("cut-video rejected: %v", err)
	}
	writeJSONError(w, string(ce.Kind), ce.Message, status)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
