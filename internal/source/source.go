package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"video-cutter/internal/fetcher"
	"video-cutter/internal/logging"
	"video-cutter/internal/mediatypes"
)

// Kinds reported by Source.Kind, also used as metric labels.
const (
	KindUpload = "upload"
	KindRemote = "remote"
)

var (
	// ErrNoSource means the request named neither an upload nor a locator.
	ErrNoSource = errors.New("either a video file or a video URL is required")

	// ErrAmbiguousSource means the request named both an upload and a locator.
	ErrAmbiguousSource = errors.New("provide either a video file or a video URL, not both")

	// ErrNotVideo means the uploaded part is not a video.
	ErrNotVideo = errors.New("uploaded file is not a video")

	// ErrEmptyUpload means the uploaded part had no content.
	ErrEmptyUpload = errors.New("uploaded file is empty")
)

// Resolved is a source materialized on local disk.
type Resolved struct {
	Path  string
	Title string
}

// Source yields a local file for one clip request.
type Source interface {
	// Resolve places the source media inside dir and returns its path.
	Resolve(ctx context.Context, dir string) (*Resolved, error)
	Kind() string
}

// Fetcher retrieves a remote locator into dir.
type Fetcher interface {
	Fetch(ctx context.Context, locator, dir string) (*fetcher.Result, error)
}

// Upload is a file sent with the request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Kind implements Source.
func (u *Upload) Kind() string { return KindUpload }

// Resolve writes the upload to dir under a sanitized name.
func (u *Upload) Resolve(ctx context.Context, dir string) (*Resolved, error) {
	if !mediatypes.IsVideoUpload(u.ContentType, u.Filename) {
		return nil, fmt.Errorf("%w: content type %q", ErrNotVideo, u.ContentType)
	}
	if u.Body == nil {
		return nil, ErrEmptyUpload
	}

	name := SanitizeFilename(filepath.Base(u.Filename))
	path := filepath.Join(dir, "upload-"+name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	n, err := io.Copy(f, readerWithContext(ctx, u.Body))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyUpload
	}

	logging.Debug("Stored upload %q (%d bytes) at %s", u.Filename, n, path)
	return &Resolved{Path: path, Title: titleFromFilename(u.Filename)}, nil
}

// Remote is a locator handed to a Fetcher.
type Remote struct {
	Locator string
	Fetcher Fetcher
}

// Kind implements Source.
func (r *Remote) Kind() string { return KindRemote }

// Resolve fetches the locator into dir.
func (r *Remote) Resolve(ctx context.Context, dir string) (*Resolved, error) {
	if r.Fetcher == nil {
		return nil, errors.New("no fetcher configured for remote sources")
	}
	res, err := r.Fetcher.Fetch(ctx, r.Locator, dir)
	if err != nil {
		return nil, err
	}
	return &Resolved{Path: res.Path, Title: res.Title}, nil
}

// New picks exactly one source variant. upload may be nil, locator may be
// empty; exactly one of them must be present.
func New(upload *Upload, locator string, f Fetcher) (Source, error) {
	locator = strings.TrimSpace(locator)
	switch {
	case upload != nil && locator != "":
		return nil, ErrAmbiguousSource
	case upload != nil:
		return upload, nil
	case locator != "":
		return &Remote{Locator: locator, Fetcher: f}, nil
	default:
		return nil, ErrNoSource
	}
}

// SanitizeFilename replaces path separators and control characters so the
// name is safe to create inside a scratch directory.
func SanitizeFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == ':', unicode.IsControl(r):
			return '_'
		default:
			return r
		}
	}, name)
	clean = strings.Trim(clean, ". ")
	if clean == "" {
		return "video"
	}
	return clean
}

func titleFromFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" || title == "." || title == "/" {
		return "video"
	}
	return title
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
