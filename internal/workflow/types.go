package workflow

import (
	"context"
	"errors"
	"time"

	"chaptermux/internal/chapters"
	"chaptermux/internal/container"
	"chaptermux/internal/metadata"
	"chaptermux/internal/remux"
)

// ErrOutputBusy reports that another run holds the output lock.
var ErrOutputBusy = errors.New("output is locked by another run")

// Toolchain is the pair of external collaborators a run depends on.
type Toolchain interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	Remux(ctx context.Context, req remux.Request) error
}

// Request describes one insertion.
type Request struct {
	Video    string
	Chapters string
	// Output defaults to <dir>/<stem>.chapters<ext> beside Video.
	Output string
	// Backend selects the metadata syntax: config.BackendNative or
	// config.BackendFFmpeg. It must match the Toolchain's remuxer.
	Backend string
	// DryRun stops after formatting; nothing is written.
	DryRun bool
	// Force allows replacing an existing output file.
	Force bool
}

// Result reports what a run produced.
type Result struct {
	RunID    string
	Output   string
	Kind     container.Kind
	Duration time.Duration
	Chapters chapters.List
	Blob     metadata.Blob
	DryRun   bool
}
