package remux

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chaptermux/internal/config"
	"chaptermux/internal/media/ffprobe"
)

// Toolchain bundles the duration probe with the configured remux backend.
type Toolchain struct {
	prober  *ffprobe.Prober
	remuxer Remuxer
	backend string
	timeout time.Duration
}

// NewToolchain selects the backend named by cfg.Remux.Backend.
func NewToolchain(cfg *config.Config, logger *slog.Logger) (*Toolchain, error) {
	if cfg == nil {
		return nil, fmt.Errorf("toolchain: config is required")
	}
	var remuxer Remuxer
	switch cfg.Remux.Backend {
	case config.BackendNative:
		remuxer = NewNative(cfg.Tools.MP4Box, cfg.Tools.MKVMerge, logger)
	case config.BackendFFmpeg:
		remuxer = NewFFmpeg(cfg.Tools.FFmpeg, logger)
	default:
		return nil, fmt.Errorf("toolchain: unsupported backend %q", cfg.Remux.Backend)
	}
	return &Toolchain{
		prober:  ffprobe.NewProber(cfg.Tools.FFprobe, logger),
		remuxer: remuxer,
		backend: cfg.Remux.Backend,
		timeout: cfg.RemuxTimeout(),
	}, nil
}

// Backend names the selected backend.
func (t *Toolchain) Backend() string {
	return t.backend
}

// ProbeDuration reports the media duration of path.
func (t *Toolchain) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	return t.prober.ProbeDuration(ctx, path)
}

// Remux runs the backend under the configured timeout.
func (t *Toolchain) Remux(ctx context.Context, req Request) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.remuxer.Remux(ctx, req)
}
