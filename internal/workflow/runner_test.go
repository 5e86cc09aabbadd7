package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"chaptermux/internal/chapters"
	"chaptermux/internal/config"
	"chaptermux/internal/container"
	"chaptermux/internal/logging"
	"chaptermux/internal/metadata"
	"chaptermux/internal/remux"
	"chaptermux/internal/services"
	"chaptermux/internal/testsupport"
	"chaptermux/internal/workflow"
)

const sampleChapters = "0:30 - Opening\n5:00 | Middle\n9:00 Finale\n"

type fixture struct {
	dir      string
	video    string
	chapters string
	tools    *testsupport.FakeToolchain
	runner   *workflow.Runner
}

func newFixture(t *testing.T, videoName, chapterText string) *fixture {
	t.Helper()
	dir := t.TempDir()
	tools := &testsupport.FakeToolchain{Duration: 10 * time.Minute}
	return &fixture{
		dir:      dir,
		video:    testsupport.WriteMedia(t, filepath.Join(dir, videoName), 64),
		chapters: testsupport.WriteFile(t, filepath.Join(dir, "chapters.txt"), chapterText),
		tools:    tools,
		runner:   workflow.NewRunner(tools, workflow.Options{}),
	}
}

func (f *fixture) request() workflow.Request {
	return workflow.Request{Video: f.video, Chapters: f.chapters}
}

func TestRunMatroskaNative(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)

	result, err := f.runner.Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantOutput := filepath.Join(f.dir, "movie.chapters.mkv")
	if result.Output != wantOutput {
		t.Fatalf("output = %q, want %q", result.Output, wantOutput)
	}
	if result.Kind != container.Matroska {
		t.Fatalf("kind = %v", result.Kind)
	}
	if got := titles(result.Chapters); strings.Join(got, ",") != "Intro,Opening,Middle,Finale" {
		t.Fatalf("titles = %v", got)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}

	reqs := f.tools.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one remux call, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Source != f.video || req.Output != wantOutput || req.Kind != container.Matroska {
		t.Fatalf("unexpected remux request: %+v", req)
	}
	if req.Metadata.Syntax != metadata.SyntaxMatroskaXML {
		t.Fatalf("syntax = %v", req.Metadata.Syntax)
	}
	written, err := os.ReadFile(wantOutput)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != result.Blob.String() {
		t.Fatal("remuxer received a different blob than the result reports")
	}
	if _, err := os.Stat(wantOutput + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed, stat err = %v", err)
	}
	if probes := f.tools.Probes(); len(probes) != 1 || probes[0] != f.video {
		t.Fatalf("unexpected probes: %v", probes)
	}
}

func TestRunQuickTimeWritesOGM(t *testing.T) {
	f := newFixture(t, "talk.m4v", "0:00 Welcome\n1:15 Q&A\n")
	out := filepath.Join(f.dir, "custom.mp4")
	req := f.request()
	req.Output = out

	result, err := f.runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Blob.Syntax != metadata.SyntaxOGM {
		t.Fatalf("syntax = %v", result.Blob.Syntax)
	}
	if !strings.Contains(result.Blob.String(), "CHAPTER02=00:01:15.000\nCHAPTER02NAME=Q&A\n") {
		t.Fatalf("unexpected blob:\n%s", result.Blob)
	}
	if len(result.Chapters) != 2 {
		t.Fatalf("expected no synthetic intro, got %v", titles(result.Chapters))
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output: %v", err)
	}
}

func TestRunFFmpegBackendUsesFFMetadata(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	req := f.request()
	req.Backend = config.BackendFFmpeg

	result, err := f.runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Blob.Syntax != metadata.SyntaxFFMetadata {
		t.Fatalf("syntax = %v", result.Blob.Syntax)
	}
	if !strings.Contains(result.Blob.String(), "START=540000\nEND=600000\n") {
		t.Fatalf("expected last chapter to end at the media duration:\n%s", result.Blob)
	}
}

func TestRunRejectsUnknownBackend(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	req := f.request()
	req.Backend = "handbrake"
	_, err := f.runner.Run(context.Background(), req)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunProbeFailureAbortsBeforeRemux(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	probeErr := errors.New("ffprobe exploded")
	f.tools.ProbeErr = probeErr

	_, err := f.runner.Run(context.Background(), f.request())
	if !errors.Is(err, services.ErrExternalTool) || !errors.Is(err, probeErr) {
		t.Fatalf("expected wrapped probe error, got %v", err)
	}
	if len(f.tools.Requests()) != 0 {
		t.Fatal("remux must not run after a probe failure")
	}
}

func TestRunValidationFailureNeverRemuxes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, err error)
	}{
		{
			name: "beyond duration",
			text: "0:00 Start\n11:00 Too late\n",
			check: func(t *testing.T, err error) {
				var bounds *chapters.BoundsError
				if !errors.As(err, &bounds) || bounds.Index != 1 {
					t.Fatalf("expected BoundsError at index 1, got %v", err)
				}
			},
		},
		{
			name: "non monotonic",
			text: "0:00 A\n0:50 B\n0:40 C\n",
			check: func(t *testing.T, err error) {
				var order *chapters.OrderError
				if !errors.As(err, &order) || order.Index != 1 {
					t.Fatalf("expected OrderError at index 1, got %v", err)
				}
			},
		},
		{
			name: "bad timestamp",
			text: "0:00 A\n1:75 B\n",
			check: func(t *testing.T, err error) {
				var line *chapters.LineError
				if !errors.As(err, &line) || line.Line != 2 {
					t.Fatalf("expected LineError on line 2, got %v", err)
				}
				if !errors.Is(err, chapters.ErrInvalidTimestamp) {
					t.Fatalf("expected ErrInvalidTimestamp in chain, got %v", err)
				}
			},
		},
		{
			name: "empty file",
			text: "\n  \n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, chapters.ErrEmptyChapterFile) {
					t.Fatalf("expected ErrEmptyChapterFile, got %v", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "movie.mkv", tt.text)
			result, err := f.runner.Run(context.Background(), f.request())
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation marker, got %v", err)
			}
			tt.check(t, err)
			if len(f.tools.Requests()) != 0 {
				t.Fatal("remux must not run after a validation failure")
			}
			if _, statErr := os.Stat(result.Output); !os.IsNotExist(statErr) {
				t.Fatalf("expected no output file, stat err = %v", statErr)
			}
		})
	}
}

func TestRunMissingInputs(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)

	req := f.request()
	req.Video = filepath.Join(f.dir, "absent.mkv")
	if _, err := f.runner.Run(context.Background(), req); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for video, got %v", err)
	}

	req = f.request()
	req.Chapters = filepath.Join(f.dir, "absent.txt")
	if _, err := f.runner.Run(context.Background(), req); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for chapters, got %v", err)
	}
	if len(f.tools.Probes()) != 0 {
		t.Fatal("probe must not run when inputs are missing")
	}
}

func TestRunUnsupportedContainer(t *testing.T) {
	f := newFixture(t, "movie.avi", sampleChapters)
	_, err := f.runner.Run(context.Background(), f.request())
	if !errors.Is(err, container.ErrUnsupported) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected unsupported container, got %v", err)
	}
}

func TestRunRejectsCrossFamilyOutput(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	req := f.request()
	req.Output = filepath.Join(f.dir, "movie.mp4")
	if _, err := f.runner.Run(context.Background(), req); !errors.Is(err, container.ErrUnsupported) {
		t.Fatalf("expected unsupported container for mkv -> mp4, got %v", err)
	}
}

func TestRunExistingOutputNeedsForce(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	out := testsupport.WriteFile(t, filepath.Join(f.dir, "movie.chapters.mkv"), "old")

	_, err := f.runner.Run(context.Background(), f.request())
	if !errors.Is(err, services.ErrValidation) || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}

	req := f.request()
	req.Force = true
	if _, err := f.runner.Run(context.Background(), req); err != nil {
		t.Fatalf("Run with force: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) == "old" {
		t.Fatal("expected output to be replaced")
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	testsupport.WriteFile(t, filepath.Join(f.dir, "movie.chapters.mkv"), "old")
	req := f.request()
	req.DryRun = true

	result, err := f.runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.DryRun || len(result.Blob.Data) == 0 {
		t.Fatalf("expected blob in dry run result, got %+v", result)
	}
	if len(f.tools.Requests()) != 0 {
		t.Fatal("dry run must not remux")
	}
	data, _ := os.ReadFile(result.Output)
	if string(data) != "old" {
		t.Fatal("dry run must not touch the output")
	}
}

func TestRunRemuxFailure(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	f.tools.RemuxErr = errors.New("remux failed: mkvmerge: exit status 2: Error: no space")
	f.tools.RemuxErr = errors.Join(remux.ErrRemux, f.tools.RemuxErr)

	_, err := f.runner.Run(context.Background(), f.request())
	if !errors.Is(err, services.ErrExternalTool) || !errors.Is(err, remux.ErrRemux) {
		t.Fatalf("expected external tool failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "Error: no space") {
		t.Fatalf("expected tool output to surface verbatim, got %q", err)
	}
}

func TestRunOutputLocked(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	lock := flock.New(filepath.Join(f.dir, "movie.chapters.mkv.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock = %v, %v", locked, err)
	}
	defer lock.Unlock()

	_, err = f.runner.Run(context.Background(), f.request())
	if !errors.Is(err, workflow.ErrOutputBusy) || !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected busy output, got %v", err)
	}
	if len(f.tools.Requests()) != 0 {
		t.Fatal("remux must not run while the output is locked")
	}
}

func TestRunCanceledBeforeRemux(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner.Run(ctx, f.request())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(f.tools.Requests()) != 0 {
		t.Fatal("remux must not start after cancellation")
	}
}

func TestRunAppliesChapterOptions(t *testing.T) {
	f := newFixture(t, "movie.mkv", "1:00\n2:00 - \n")
	runner := workflow.NewRunner(f.tools, workflow.Options{IntroTitle: "Cold Open", Language: "de"})

	result, err := runner.Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(titles(result.Chapters), ","); got != "Cold Open,Chapter 2,Chapter 3" {
		t.Fatalf("titles = %q", got)
	}
	if !strings.Contains(result.Blob.String(), "<ChapterLanguage>ger</ChapterLanguage>") {
		t.Fatalf("expected configured chapter language:\n%s", result.Blob)
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	req := f.request()
	req.DryRun = true
	a, err := f.runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := f.runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.RunID == b.RunID {
		t.Fatalf("expected distinct run ids, got %q twice", a.RunID)
	}
	if a.Blob.String() != b.Blob.String() {
		t.Fatal("formatting the same input must be byte-identical")
	}
}

func TestNilToolchain(t *testing.T) {
	runner := workflow.NewRunner(nil, workflow.Options{})
	if _, err := runner.Run(context.Background(), workflow.Request{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunLogsCarryRunFieldsOnce(t *testing.T) {
	f := newFixture(t, "movie.mkv", sampleChapters)
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	runner := workflow.NewRunner(f.tools, workflow.Options{Logger: logger})

	result, err := runner.Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if n := strings.Count(line, " video="); n > 1 {
			t.Fatalf("duplicate video key in %q", line)
		}
		if !strings.Contains(line, "run_id="+result.RunID) {
			t.Fatalf("missing run id in %q", line)
		}
	}
	if !strings.Contains(buf.String(), "video_path="+f.video) {
		t.Fatalf("expected full video path once:\n%s", buf.String())
	}
}

func titles(list chapters.List) []string {
	out := make([]string, len(list))
	for i, ch := range list {
		out[i] = ch.Title
	}
	return out
}
