package remux

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chaptermux/internal/logging"
	"chaptermux/internal/metadata"
)

// FFmpeg embeds chapters for either container family with a single ffmpeg
// stream copy. Global tags come from the source; chapters come only from the
// FFMETADATA input.
type FFmpeg struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewFFmpeg constructs the ffmpeg backend.
func NewFFmpeg(binary string, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{
		binary: defaultBinary(binary, "ffmpeg"),
		logger: logging.NewComponentLogger(logger, "remux"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (f *FFmpeg) WithCommandRunner(r commandRunner) {
	if f != nil && r != nil {
		f.run = r
	}
}

// Remux runs ffmpeg into a temp file and renames it over req.Output.
func (f *FFmpeg) Remux(ctx context.Context, req Request) error {
	if f == nil {
		return fmt.Errorf("%w: ffmpeg remuxer not initialized", ErrRemux)
	}
	if err := req.validate(metadata.SyntaxFFMetadata); err != nil {
		return err
	}
	s, err := stage(req)
	if err != nil {
		return err
	}
	defer s.cleanup()

	logger := logging.WithContext(ctx, f.logger)
	args := buildFFmpegArgs(req.Source, s.blobPath, s.tmpPath)
	logger.Debug("executing ffmpeg",
		logging.String("source", req.Source),
		logging.String("temp_output", s.tmpPath),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := f.run(ctx, f.binary, args...); err != nil {
		return fmt.Errorf("%w: ffmpeg: %w", ErrRemux, err)
	}
	return finish(logger, s, req)
}

func buildFFmpegArgs(source, metadataPath, output string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin", "-y",
		"-i", source,
		"-f", "ffmetadata", "-i", metadataPath,
		"-map", "0",
		"-map_metadata", "0",
		"-map_chapters", "1",
		"-codec", "copy",
		output,
	}
}
