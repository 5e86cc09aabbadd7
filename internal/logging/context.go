package logging

import (
	"context"
	"log/slog"
	"path/filepath"

	"chaptermux/internal/services"
)

// Structured keys shared by every component.
const (
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldRunID     = "run_id"
	FieldVideo     = "video"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldErrorKind = "error_category"
)

// RunFields returns the run attributes carried by ctx. The video is reduced
// to its base name; the full path is logged once when the run starts.
func RunFields(ctx context.Context) []slog.Attr {
	run, ok := services.RunFromContext(ctx)
	if !ok {
		return nil
	}
	var fields []slog.Attr
	if run.ID != "" {
		fields = append(fields, slog.String(FieldRunID, run.ID))
	}
	if run.Video != "" {
		fields = append(fields, slog.String(FieldVideo, filepath.Base(run.Video)))
	}
	if run.Stage != "" {
		fields = append(fields, slog.String(FieldStage, run.Stage))
	}
	return fields
}

// WithContext returns logger annotated with the run fields from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := RunFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return logger.With(args...)
}
