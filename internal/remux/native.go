package remux

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chaptermux/internal/container"
	"chaptermux/internal/fileutil"
	"chaptermux/internal/logging"
	"chaptermux/internal/metadata"
)

// mkvmerge exits 1 when it finished with warnings.
const mkvmergeWarningExit = 1

// Native embeds chapters with each family's own tool: MP4Box for QuickTime
// and mkvmerge for Matroska.
type Native struct {
	mp4box   string
	mkvmerge string
	logger   *slog.Logger
	run      commandRunner
	copy     func(src, dst string) error
}

// NewNative constructs the native backend. Empty binaries fall back to the
// tool names on PATH.
func NewNative(mp4box, mkvmerge string, logger *slog.Logger) *Native {
	return &Native{
		mp4box:   defaultBinary(mp4box, "MP4Box"),
		mkvmerge: defaultBinary(mkvmerge, "mkvmerge"),
		logger:   logging.NewComponentLogger(logger, "remux"),
		run:      defaultCommandRunner,
		copy:     fileutil.CopyFile,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (n *Native) WithCommandRunner(r commandRunner) {
	if n != nil && r != nil {
		n.run = r
	}
}

// Remux dispatches on the container family.
func (n *Native) Remux(ctx context.Context, req Request) error {
	if n == nil {
		return fmt.Errorf("%w: native remuxer not initialized", ErrRemux)
	}
	switch req.Kind {
	case container.QuickTime:
		return n.remuxQuickTime(ctx, req)
	case container.Matroska:
		return n.remuxMatroska(ctx, req)
	default:
		return fmt.Errorf("%w: %w: %s", ErrRemux, container.ErrUnsupported, req.Kind)
	}
}

// remuxQuickTime copies the source, then has MP4Box rewrite the copy's
// chapter list in place.
func (n *Native) remuxQuickTime(ctx context.Context, req Request) error {
	if err := req.validate(metadata.SyntaxOGM); err != nil {
		return err
	}
	s, err := stage(req)
	if err != nil {
		return err
	}
	defer s.cleanup()

	if err := n.copy(req.Source, s.tmpPath); err != nil {
		return fmt.Errorf("%w: copy source: %w", ErrRemux, err)
	}

	logger := logging.WithContext(ctx, n.logger)
	args := []string{"-chap", s.blobPath, s.tmpPath}
	logger.Debug("executing MP4Box",
		logging.String("source", req.Source),
		logging.String("temp_output", s.tmpPath),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := n.run(ctx, n.mp4box, args...); err != nil {
		return fmt.Errorf("%w: MP4Box: %w", ErrRemux, err)
	}
	return finish(logger, s, req)
}

// remuxMatroska has mkvmerge write a new file, dropping the source chapters
// in favour of the supplied XML.
func (n *Native) remuxMatroska(ctx context.Context, req Request) error {
	if err := req.validate(metadata.SyntaxMatroskaXML); err != nil {
		return err
	}
	s, err := stage(req)
	if err != nil {
		return err
	}
	defer s.cleanup()

	logger := logging.WithContext(ctx, n.logger)
	args := []string{"-o", s.tmpPath, "--chapters", s.blobPath, "--no-chapters", req.Source}
	logger.Debug("executing mkvmerge",
		logging.String("source", req.Source),
		logging.String("temp_output", s.tmpPath),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := n.run(ctx, n.mkvmerge, args...); err != nil {
		if exitCode(err) != mkvmergeWarningExit {
			return fmt.Errorf("%w: mkvmerge: %w", ErrRemux, err)
		}
		logger.Warn("mkvmerge finished with warnings",
			logging.Error(err),
			logging.String(logging.FieldEventType, "mkvmerge_warnings"),
		)
	}
	return finish(logger, s, req)
}

func finish(logger *slog.Logger, s *staged, req Request) error {
	if err := s.promote(req.Output); err != nil {
		return err
	}
	logger.Info("chapters embedded",
		logging.String(logging.FieldEventType, "remux_complete"),
		logging.String("output", req.Output),
		logging.String("container", req.Kind.String()),
	)
	return nil
}

func defaultBinary(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
