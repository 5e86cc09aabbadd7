package testsupport

import (
	"context"
	"os"
	"sync"
	"time"

	"chaptermux/internal/remux"
)

// FakeToolchain stands in for ffprobe and the remux backends. Remux copies
// the request's metadata blob into the output file so tests can inspect what
// would have been embedded.
type FakeToolchain struct {
	Duration time.Duration
	ProbeErr error
	RemuxErr error
	// BeforeRemux, when set, runs at the start of Remux.
	BeforeRemux func(ctx context.Context, req remux.Request)

	mu       sync.Mutex
	probes   []string
	requests []remux.Request
}

// ProbeDuration records the call and returns Duration or ProbeErr.
func (f *FakeToolchain) ProbeDuration(_ context.Context, path string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, path)
	if f.ProbeErr != nil {
		return 0, f.ProbeErr
	}
	return f.Duration, nil
}

// Remux records the request and writes the blob to req.Output.
func (f *FakeToolchain) Remux(ctx context.Context, req remux.Request) error {
	if f.BeforeRemux != nil {
		f.BeforeRemux(ctx, req)
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.RemuxErr != nil {
		return f.RemuxErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(req.Output, req.Metadata.Data, 0o644)
}

// Probes returns the paths passed to ProbeDuration.
func (f *FakeToolchain) Probes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.probes...)
}

// Requests returns the requests passed to Remux.
func (f *FakeToolchain) Requests() []remux.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remux.Request(nil), f.requests...)
}
