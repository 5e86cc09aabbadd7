package services

import "context"

// Run identifies one insertion. It travels in the context so every log line
// and error for the run can be correlated.
type Run struct {
	ID    string
	Video string
	Stage string
}

type runKey struct{}

// WithRun stores run in ctx, replacing any run already present.
func WithRun(ctx context.Context, run Run) context.Context {
	return context.WithValue(ctx, runKey{}, run)
}

// RunFromContext returns the run stored by WithRun.
func RunFromContext(ctx context.Context) (Run, bool) {
	if ctx == nil {
		return Run{}, false
	}
	run, ok := ctx.Value(runKey{}).(Run)
	return run, ok
}

// WithStage records the stage the run has reached. A blank stage leaves ctx
// unchanged.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	run, _ := RunFromContext(ctx)
	run.Stage = stage
	return WithRun(ctx, run)
}
