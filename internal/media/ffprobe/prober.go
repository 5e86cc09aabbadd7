package ffprobe

import (
	"context"
	"log/slog"
	"time"

	"chaptermux/internal/logging"
)

// Prober reports media durations using an ffprobe binary.
type Prober struct {
	binary string
	logger *slog.Logger
	run    runner
}

// NewProber constructs a prober; an empty binary means "ffprobe" from PATH.
func NewProber(binary string, logger *slog.Logger) *Prober {
	return &Prober{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffprobe"),
		run:    combinedOutput,
	}
}

// ProbeDuration inspects path once and returns its container duration.
func (p *Prober) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	result, err := inspect(ctx, p.run, p.binary, path)
	if err != nil {
		return 0, err
	}
	duration, err := result.Duration()
	if err != nil {
		return 0, err
	}
	logging.WithContext(ctx, p.logger).Debug("probed media duration",
		logging.String("path", path),
		logging.String("format", result.Format.FormatName),
		logging.Duration("duration", duration),
		logging.Int("video_streams", result.VideoStreamCount()),
		logging.Int("audio_streams", result.AudioStreamCount()),
	)
	return duration, nil
}
