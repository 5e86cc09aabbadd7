package remux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"chaptermux/internal/container"
	"chaptermux/internal/fileutil"
	"chaptermux/internal/metadata"
)

// ErrRemux marks every failure to embed chapters into the output.
var ErrRemux = errors.New("remux failed")

// Request describes one chapter embedding.
type Request struct {
	Source   string
	Output   string
	Kind     container.Kind
	Metadata metadata.Blob
}

// Remuxer writes Request.Output as a stream copy of Request.Source carrying
// Request.Metadata as its chapters.
type Remuxer interface {
	Remux(ctx context.Context, req Request) error
}

// commandRunner executes an external tool. Errors carry the tool output.
type commandRunner func(ctx context.Context, name string, args ...string) error

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &toolError{err: err, output: strings.TrimSpace(string(output))}
	}
	return nil
}

// toolError keeps the exit status reachable for callers that treat some
// non-zero codes as warnings.
type toolError struct {
	err    error
	output string
}

func (e *toolError) Error() string {
	if e.output == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%v: %s", e.err, e.output)
}

func (e *toolError) Unwrap() error { return e.err }

// exitCode returns the process exit status carried by err, or -1.
func exitCode(err error) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

func (r Request) validate(want metadata.Syntax) error {
	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("%w: source path is required", ErrRemux)
	}
	if strings.TrimSpace(r.Output) == "" {
		return fmt.Errorf("%w: output path is required", ErrRemux)
	}
	if len(r.Metadata.Data) == 0 {
		return fmt.Errorf("%w: chapter metadata is empty", ErrRemux)
	}
	if r.Metadata.Syntax != want {
		return fmt.Errorf("%w: %s output needs %s chapters, got %s", ErrRemux, r.Kind, want, r.Metadata.Syntax)
	}
	if _, err := os.Stat(r.Source); err != nil {
		return fmt.Errorf("%w: source not found: %w", ErrRemux, err)
	}
	return nil
}

// staged holds the temp files of one run. cleanup is safe to call twice.
type staged struct {
	blobPath string
	tmpPath  string
}

func stage(req Request) (*staged, error) {
	blobPath, err := fileutil.WriteTemp("", "chaptermux-", req.Metadata.Syntax.Extension(), req.Metadata.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemux, err)
	}
	tmpPath, err := fileutil.TempSibling(req.Output)
	if err != nil {
		_ = os.Remove(blobPath)
		return nil, fmt.Errorf("%w: %w", ErrRemux, err)
	}
	return &staged{blobPath: blobPath, tmpPath: tmpPath}, nil
}

func (s *staged) promote(output string) error {
	if err := fileutil.Promote(s.tmpPath, output); err != nil {
		return fmt.Errorf("%w: %w", ErrRemux, err)
	}
	s.tmpPath = ""
	return nil
}

func (s *staged) cleanup() {
	if s.blobPath != "" {
		_ = os.Remove(s.blobPath)
	}
	if s.tmpPath != "" {
		_ = os.Remove(s.tmpPath)
	}
}
