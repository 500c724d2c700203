package handlers

import (
	"context"
	"time"

	"video-cutter/internal/clipper"
	"video-cutter/internal/source"
	"video-cutter/internal/startup"
)

// Clipper is the part of clipper.Service the handlers use.
type Clipper interface {
	NewSource(upload *source.Upload, locator string) (source.Source, error)
	Clip(ctx context.Context, req clipper.Request) (*clipper.Result, error)
}

type Handlers struct {
	clipper       Clipper
	maxUploadSize int64
	tools         []startup.ToolStatus
	startTime     time.Time
}

func New(c Clipper, config *startup.Config, tools []startup.ToolStatus) *Handlers {
	return &Handlers{
		clipper:       c,
		maxUploadSize: config.MaxUploadSize,
		tools:         tools,
		startTime:     time.Now(),
	}
}
