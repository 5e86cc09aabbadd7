package logging

import (
	"context"
	"log/slog"
	"time"

	"chaptermux/internal/services"
)

type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// DefaultHint is attached to failures that do not name their own next step.
const DefaultHint = "rerun with --log-level debug for tool output"

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name, which the console
// handler renders as a prefix. A nil logger yields a discarding one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// Failure is an error record with the event it belongs to and what the
// operator should try next.
type Failure struct {
	Event string
	Err   error
	Hint  string
}

// LogFailure writes f at error level with the run fields from ctx.
func LogFailure(ctx context.Context, logger *slog.Logger, msg string, f Failure, attrs ...Attr) {
	if logger == nil {
		return
	}
	hint := f.Hint
	if hint == "" {
		hint = DefaultHint
	}
	args := make([]any, 0, len(attrs)+3)
	args = append(args, String(FieldEventType, f.Event), Error(f.Err))
	if f.Err != nil {
		args = append(args, String(FieldErrorKind, services.Category(f.Err)))
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	args = append(args, String(FieldErrorHint, hint))
	WithContext(ctx, logger).ErrorContext(ctx, msg, args...)
}
