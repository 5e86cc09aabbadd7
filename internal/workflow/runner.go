package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chaptermux/internal/chapters"
	"chaptermux/internal/config"
	"chaptermux/internal/container"
	"chaptermux/internal/logging"
	"chaptermux/internal/metadata"
	"chaptermux/internal/preflight"
	"chaptermux/internal/remux"
	"chaptermux/internal/services"
)

// Options carries the chapter settings a Runner applies to every run.
type Options struct {
	IntroTitle string
	Language   string
	Logger     *slog.Logger
}

// Runner executes insert requests against a Toolchain.
type Runner struct {
	tools     Toolchain
	parser    chapters.Parser
	formatter metadata.Formatter
	logger    *slog.Logger
	newID     func() string
}

// NewRunner constructs a runner.
func NewRunner(tools Toolchain, opts Options) *Runner {
	return &Runner{
		tools:     tools,
		parser:    chapters.Parser{IntroTitle: opts.IntroTitle},
		formatter: metadata.Formatter{Language: opts.Language},
		logger:    logging.NewComponentLogger(opts.Logger, "workflow"),
		newID:     uuid.NewString,
	}
}

// Run performs one insertion. Nothing is written unless every check passes
// and the remuxer succeeds.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if r == nil || r.tools == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "workflow", "init", "toolchain not configured", nil)
	}
	runID := r.newID()
	ctx = services.WithRun(ctx, services.Run{ID: runID, Video: req.Video})
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	output := strings.TrimSpace(req.Output)
	if output == "" {
		output = container.DefaultOutputPath(req.Video)
	}
	result := Result{RunID: runID, Output: output, DryRun: req.DryRun}

	switch backendName(req.Backend) {
	case config.BackendNative, config.BackendFFmpeg:
	default:
		return result, services.Wrap(services.ErrConfiguration, "workflow", "backend", fmt.Sprintf("unsupported backend %q", req.Backend), nil)
	}

	kind, err := container.Resolve(req.Video, output)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "resolve", "container", "", err)
	}
	result.Kind = kind

	if err := r.checkPaths(req, output); err != nil {
		return result, err
	}

	logger.Info("inserting chapters",
		logging.String("video_path", req.Video),
		logging.String("chapters", req.Chapters),
		logging.String("output", output),
		logging.String("container", kind.String()),
		logging.String("backend", backendName(req.Backend)),
		logging.Bool("dry_run", req.DryRun),
	)

	list, duration, err := r.load(ctx, req)
	if err != nil {
		return result, err
	}
	result.Chapters = list
	result.Duration = duration

	validateCtx := services.WithStage(ctx, "validate")
	if err := chapters.Validate(list, duration); err != nil {
		logging.LogFailure(validateCtx, r.logger, "chapter list rejected", logging.Failure{
			Event: "chapters_invalid",
			Err:   err,
			Hint:  "fix the chapter file so starts increase and end within the video",
		}, logging.Duration("media_duration", duration))
		return result, services.Wrap(services.ErrValidation, "validate", "chapters", "", err)
	}

	blob, err := r.render(list, kind, duration, req.Backend)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "format", kind.String(), "", err)
	}
	result.Blob = blob

	if req.DryRun {
		logger.Info("dry run complete",
			logging.Int("chapter_count", len(list)),
			logging.String("syntax", blob.Syntax.String()),
		)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := r.remux(ctx, remux.Request{Source: req.Video, Output: output, Kind: kind, Metadata: blob}); err != nil {
		return result, err
	}

	logger.Info("chapters inserted",
		logging.String(logging.FieldEventType, "insert_complete"),
		logging.String("output", output),
		logging.Int("chapter_count", len(list)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// checkPaths separates missing inputs (not found) from unusable paths
// (validation) before any tool runs.
func (r *Runner) checkPaths(req Request, output string) error {
	for _, in := range []struct{ label, path string }{
		{"video file", req.Video},
		{"chapter file", req.Chapters},
	} {
		if _, err := os.Stat(in.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return services.Wrap(services.ErrNotFound, "open", in.label, in.path, err)
			}
			return services.Wrap(services.ErrValidation, "open", in.label, in.path, err)
		}
	}

	paths := preflight.Paths{Video: req.Video, Chapters: req.Chapters}
	if !req.DryRun {
		paths.Output = output
		paths.Overwrite = req.Force
	}
	if failed := preflight.Failed(preflight.RunAll(paths)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			details = append(details, f.Name+": "+f.Detail)
		}
		return services.Wrap(services.ErrValidation, "preflight", "", strings.Join(details, "; "), nil)
	}
	return nil
}

// load probes the media and parses the chapter file concurrently. The first
// failure cancels the probe.
func (r *Runner) load(ctx context.Context, req Request) (chapters.List, time.Duration, error) {
	var (
		list     chapters.List
		duration time.Duration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		probeCtx := services.WithStage(gctx, "probe")
		d, err := r.tools.ProbeDuration(probeCtx, req.Video)
		if err != nil {
			logging.LogFailure(probeCtx, r.logger, "media probe failed", logging.Failure{
				Event: "probe_failed",
				Err:   err,
				Hint:  "check that ffprobe is installed and the file is a playable video",
			})
			return services.Wrap(services.ErrExternalTool, "probe", "duration", req.Video, err)
		}
		duration = d
		return nil
	})
	g.Go(func() error {
		l, err := r.parser.ReadFile(req.Chapters)
		if err != nil {
			return services.Wrap(services.ErrValidation, "parse", "chapters", req.Chapters, err)
		}
		list = l
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	r.logger.Debug("inputs loaded",
		logging.Int("chapter_count", len(list)),
		logging.Duration("media_duration", duration),
	)
	return list, duration, nil
}

func (r *Runner) render(list chapters.List, kind container.Kind, duration time.Duration, backend string) (metadata.Blob, error) {
	if backendName(backend) == config.BackendFFmpeg {
		return metadata.FormatFFMetadata(list, duration), nil
	}
	return r.formatter.Format(list, kind)
}

// remux holds an advisory lock on <output>.lock for the duration of the
// external call.
func (r *Runner) remux(ctx context.Context, req remux.Request) error {
	ctx = services.WithStage(ctx, "remux")
	logger := logging.WithContext(ctx, r.logger)

	lockPath := req.Output + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrTransient, "remux", "lock", lockPath, err)
	}
	if !locked {
		return services.Wrap(services.ErrBusy, "remux", "lock", req.Output, ErrOutputBusy)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()
	logger.Debug("output locked", logging.String("lock", lockPath))

	if err := r.tools.Remux(ctx, req); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("remux interrupted: %w", context.Canceled)
		}
		logging.LogFailure(ctx, r.logger, "remux failed", logging.Failure{Event: "remux_failed", Err: err},
			logging.String("output", req.Output),
		)
		return services.Wrap(services.ErrExternalTool, "remux", req.Kind.String(), "", err)
	}
	return nil
}

func backendName(backend string) string {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		return config.BackendNative
	}
	return backend
}
