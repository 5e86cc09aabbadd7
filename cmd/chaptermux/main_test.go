package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chaptermux/internal/config"
	"chaptermux/internal/services"
	"chaptermux/internal/testsupport"
	"chaptermux/internal/workflow"
)

const sampleChapters = `0:01 - Take Back The City
3:45 | Breaking Point
1:02:03 Finale
`

type cliEnv struct {
	dir        string
	configPath string
	tools      *testsupport.FakeToolchain
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := testsupport.NewConfig(t, opts...)
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	dir := testsupport.BaseDir(cfg)
	configPath := testsupport.WriteFile(t, filepath.Join(dir, "chaptermux.toml"), string(data))

	tools := &testsupport.FakeToolchain{Duration: 2 * time.Hour}
	previous := newToolchain
	newToolchain = func(*config.Config, *slog.Logger) (workflow.Toolchain, error) {
		return tools, nil
	}
	t.Cleanup(func() { newToolchain = previous })

	return &cliEnv{dir: dir, configPath: configPath, tools: tools}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}

func TestInsertWritesDefaultOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	video := testsupport.WriteMedia(t, filepath.Join(env.dir, "movie.mkv"), 1024)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)

	out, _, err := runCLI(t, []string{"insert", video, list}, env.configPath)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	want := filepath.Join(env.dir, "movie.chapters.mkv")
	requireContains(t, out, "Inserted 4 chapters into: "+want)

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "<ChapterString>Take Back The City</ChapterString>")

	requests := env.tools.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected 1 remux request, got %d", len(requests))
	}
	if requests[0].Source != video {
		t.Fatalf("unexpected source %q", requests[0].Source)
	}
}

func TestInsertDryRunPrintsBlob(t *testing.T) {
	env := setupCLITestEnv(t)
	video := testsupport.WriteMedia(t, filepath.Join(env.dir, "movie.mp4"), 1024)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)

	out, errOut, err := runCLI(t, []string{"insert", "--dry-run", video, list}, env.configPath)
	if err != nil {
		t.Fatalf("insert --dry-run: %v", err)
	}
	requireContains(t, out, "CHAPTER01=00:00:00.000")
	requireContains(t, out, "CHAPTER01NAME=Intro")
	requireContains(t, out, "CHAPTER04NAME=Finale")
	requireContains(t, errOut, "Dry run: 4 chapters")

	if len(env.tools.Requests()) != 0 {
		t.Fatal("dry run must not remux")
	}
	if _, err := os.Stat(filepath.Join(env.dir, "movie.chapters.mp4")); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote output: %v", err)
	}
}

func TestInsertBackendOverrideSelectsFFMetadata(t *testing.T) {
	env := setupCLITestEnv(t)
	video := testsupport.WriteMedia(t, filepath.Join(env.dir, "movie.mp4"), 1024)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)
	output := filepath.Join(env.dir, "out", "final.mp4")
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"insert", "--backend", "FFmpeg", "-o", output, video, list}, env.configPath)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	requireContains(t, out, "into: "+output)

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), ";FFMETADATA1")
}

func TestInsertRefusesExistingOutputWithoutForce(t *testing.T) {
	env := setupCLITestEnv(t)
	video := testsupport.WriteMedia(t, filepath.Join(env.dir, "movie.mkv"), 1024)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)
	existing := testsupport.WriteMedia(t, filepath.Join(env.dir, "movie.chapters.mkv"), 16)

	_, _, err := runCLI(t, []string{"insert", video, list}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(env.tools.Requests()) != 0 {
		t.Fatal("remux ran despite existing output")
	}

	if _, _, err := runCLI(t, []string{"insert", "--force", video, list}, env.configPath); err != nil {
		t.Fatalf("insert --force: %v", err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	requireContains(t, string(data), "<Chapters>")
}

func TestInsertRejectsChaptersPastDuration(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tools.Duration = 30 * time.Minute
	video := testsupport.WriteMedia(t, filepath.Join(env.dir, "movie.mkv"), 1024)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)

	_, _, err := runCLI(t, []string{"insert", video, list}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	requireContains(t, err.Error(), "1:02:03")
}

func TestInsertRequiresTwoArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"insert", "movie.mkv"}, env.configPath); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestPreviewRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)

	out, _, err := runCLI(t, []string{"preview", "--duration", "1:10:00", list}, env.configPath)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{"Start", "Title", "Length", "Intro", "Breaking Point", "1:02:03", "7:57", "4 chapters"} {
		requireContains(t, out, want)
	}
}

func TestPreviewFormats(t *testing.T) {
	env := setupCLITestEnv(t)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "ogm", args: []string{"--format", "ogm"}, want: "CHAPTER02=00:00:01.000"},
		{name: "xml", args: []string{"--format", "xml"}, want: "<ChapterTimeStart>00:00:01.000000000</ChapterTimeStart>"},
		{name: "container mkv", args: []string{"--container", "mkv"}, want: "<EditionEntry>"},
		{name: "container mp4", args: []string{"--container", "mp4"}, want: "CHAPTER03NAME=Breaking Point"},
		{name: "ffmetadata", args: []string{"--format", "ffmetadata", "--duration", "1:10:00"}, want: "END=4200000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"preview"}, tt.args...)
			out, _, err := runCLI(t, append(args, list), env.configPath)
			if err != nil {
				t.Fatalf("preview %v: %v", tt.args, err)
			}
			requireContains(t, out, tt.want)
		})
	}
}

func TestPreviewErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	list := testsupport.WriteFile(t, filepath.Join(env.dir, "chapters.txt"), sampleChapters)
	bad := testsupport.WriteFile(t, filepath.Join(env.dir, "bad.txt"), "0:00 Intro\n1:75 Broken\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"--format", "json", list}},
		{name: "unknown container", args: []string{"--container", "avi", list}},
		{name: "ffmetadata without duration", args: []string{"--format", "ffmetadata", list}},
		{name: "bad duration", args: []string{"--duration", "soon", list}},
		{name: "beyond duration", args: []string{"--duration", "1:00:00", list}},
		{name: "zero duration", args: []string{"--duration", "0:00", list}},
		{name: "empty duration", args: []string{"--duration", "", list}},
		{name: "overflowing duration", args: []string{"--duration", "153722868:00", list}},
		{name: "bad line", args: []string{bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, append([]string{"preview"}, tt.args...), env.configPath)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCheckReportsTools(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"check", "--dir", env.dir}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"== Tools ==", "FFprobe:", "mkvmerge:", "[OK]", "(writable)", "English (eng)"} {
		requireContains(t, out, want)
	}
}

func TestCheckFailsWhenRequiredToolMissing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithEmptyPath())

	out, _, err := runCLI(t, []string{"check", "--dir", env.dir}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, err.Error(), "FFprobe")
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "show"}, target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[remux]")
	requireContains(t, out, "mkvmerge")
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := testsupport.WriteFile(t, filepath.Join(env.dir, "bad.toml"), "[remux]\nbackend = \"handbrake\"\n")

	if _, _, err := runCLI(t, []string{"check"}, bad); err == nil {
		t.Fatal("expected config error")
	}
	if _, _, err := runCLI(t, []string{"check", "--log-level", "verbose"}, env.configPath); err == nil {
		t.Fatal("expected log level override to be validated")
	}
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("FFprobe", statusOK, "/usr/bin/ffprobe", false)
	if plain != "  FFprobe:           [OK] /usr/bin/ffprobe" {
		t.Fatalf("unexpected line %q", plain)
	}
	colored := renderStatusLine("mkvmerge", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestRenderTableKeepsHeaderCase(t *testing.T) {
	out := renderTable([]column{{Header: "Start", Align: alignRight}, {Header: "Title"}}, [][]string{{"0:00"}})
	requireContains(t, out, "Start")
	requireContains(t, out, "Title")
	if strings.Contains(out, "START") {
		t.Fatalf("headers were upper-cased:\n%s", out)
	}
}
