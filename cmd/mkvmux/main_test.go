package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"mkvmux/internal/media/identify"
	"mkvmux/internal/services"
	"mkvmux/internal/services/mkvtoolnix"
)

type exitErr int

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitErr) ExitCode() int { return int(e) }

// fakeToolchain answers mkvmerge and mkvextract invocations from memory.
type fakeToolchain struct {
	mu      sync.Mutex
	infos   map[string]identify.Info
	calls   [][]string
	muxErr  error
	muxOut  []string
	chapter string
}

func (f *fakeToolchain) Run(_ context.Context, binary string, args []string, onLine func(mkvtoolnix.Stream, string)) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{filepath.Base(binary)}, args...))
	f.mu.Unlock()

	switch {
	case len(args) == 1 && args[0] == "-V":
		onLine(mkvtoolnix.Stdout, "mkvmerge v90.0 ('Hanging On') 64-bit")
		return nil
	case len(args) == 2 && args[0] == "-J":
		info, ok := f.infos[filepath.Base(args[1])]
		if !ok {
			return exitErr(2)
		}
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		onLine(mkvtoolnix.Stdout, string(data))
		return nil
	case strings.HasSuffix(binary, "mkvextract"):
		if args[0] == "chapters" {
			for _, line := range strings.Split(f.chapter, "\n") {
				onLine(mkvtoolnix.Stdout, line)
			}
			return nil
		}
		_, out, _ := strings.Cut(args[len(args)-1], ":")
		return os.WriteFile(out, []byte("data"), 0o644)
	default:
		for _, line := range f.muxOut {
			onLine(mkvtoolnix.Stdout, line)
		}
		return f.muxErr
	}
}

func (f *fakeToolchain) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func ripInfo() identify.Info {
	return identify.Info{
		Container: identify.Container{Recognized: true, Supported: true, Type: "Matroska",
			Properties: identify.ContainerProperties{Title: "Rip", Duration: 5_400_000_000_000}},
		Tracks: []identify.Track{
			{ID: 0, Type: "video", Codec: "HEVC/H.265/MPEG-H", Properties: identify.TrackProperties{DefaultTrack: true}},
			{ID: 1, Type: "audio", Codec: "AC-3", Properties: identify.TrackProperties{Language: "eng", TrackName: "Surround"}},
		},
		Attachments: []identify.Attachment{{ID: 1, FileName: "font.ttf", ContentType: "font/ttf", Size: 2048}},
	}
}

type cliEnv struct {
	dir        string
	configPath string
	mkvmerge   string
	tools      *fakeToolchain
	logs       *bytes.Buffer
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	env := &cliEnv{
		dir:      dir,
		mkvmerge: filepath.Join(bin, "mkvmerge"),
		tools:    &fakeToolchain{infos: map[string]identify.Info{"rip.mkv": ripInfo()}},
		logs:     &bytes.Buffer{},
	}
	for _, name := range []string{"mkvmerge", "mkvextract"} {
		if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	env.configPath = filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[tools]\nmkvmerge_path = %q\nmkvextract_path = %q\n\n[logging]\nlevel = \"info\"\n\n[progress]\nshow_bar = false\n",
		env.mkvmerge, filepath.Join(bin, "mkvextract"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rip.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e *cliEnv) writeJob(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(e.dir, "job.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ctx := newCommandContext()
	ctx.executor = e.tools
	ctx.logWriter = e.logs
	cmd := newRootCommandWith(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in:\n%s", needle, haystack)
	}
}

const simpleJob = `
output = "Feature.mkv"

[[inputs]]
path = "rip.mkv"
`

func TestPlanPrintsCommand(t *testing.T) {
	env := setupCLI(t)
	job := env.writeJob(t, simpleJob)

	out, _, err := env.run(t, "plan", job)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.HasPrefix(out, env.mkvmerge+" -o "+filepath.Join(env.dir, "Feature.mkv")) {
		t.Fatalf("unexpected command prefix: %s", out)
	}
	requireContains(t, out, "--audio-tracks 1 --video-tracks 0 --no-subtitles")
	requireContains(t, out, "--track-order 0:0,0:1")
}

func TestPlanListAndOutputOverride(t *testing.T) {
	env := setupCLI(t)
	job := env.writeJob(t, simpleJob)
	target := filepath.Join(env.dir, "out", "Other.mkv")

	out, _, err := env.run(t, "plan", job, "--list", "-o", target)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != env.mkvmerge || lines[1] != "-o" || lines[2] != target {
		t.Fatalf("unexpected argv head %q", lines[:3])
	}
	if !slices.Contains(lines, filepath.Join(env.dir, "rip.mkv")) {
		t.Fatalf("source path missing from %q", lines)
	}
}

func TestMuxRunsMkvmerge(t *testing.T) {
	env := setupCLI(t)
	env.tools.muxOut = []string{"Progress: 50%", "Progress: 100%"}
	job := env.writeJob(t, simpleJob)

	out, _, err := env.run(t, "mux", job)
	if err != nil {
		t.Fatalf("mux: %v", err)
	}
	requireContains(t, out, "Wrote "+filepath.Join(env.dir, "Feature.mkv"))

	call := env.tools.lastCall()
	if call[0] != "mkvmerge" || call[1] != "-o" {
		t.Fatalf("unexpected mux call %q", call)
	}
	logs := env.logs.String()
	requireContains(t, logs, "mux complete")
	requireContains(t, logs, "progress_percent")
	if _, err := os.Stat(filepath.Join(env.dir, "Feature.mkv.lock")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("lock file should be removed, stat err %v", err)
	}
}

func TestMuxFailureMapsToExternalToolExit(t *testing.T) {
	env := setupCLI(t)
	env.tools.muxOut = []string{"Error: no space left on device"}
	env.tools.muxErr = exitErr(2)
	job := env.writeJob(t, simpleJob)

	_, _, err := env.run(t, "mux", job)
	if err == nil {
		t.Fatal("expected mux failure")
	}
	if code := services.ExitCode(err); code != services.ExitExternalTool {
		t.Fatalf("expected exit %d, got %d (%v)", services.ExitExternalTool, code, err)
	}
	requireContains(t, err.Error(), "no space left on device")
}

func TestJobErrorsMapToExitCodes(t *testing.T) {
	env := setupCLI(t)

	_, _, err := env.run(t, "plan", filepath.Join(env.dir, "missing.toml"))
	if code := services.ExitCode(err); code != services.ExitNotFound {
		t.Fatalf("missing job: expected %d, got %d (%v)", services.ExitNotFound, code, err)
	}

	job := env.writeJob(t, simpleJob+"tracks = [7]\n")
	_, _, err = env.run(t, "plan", job)
	if code := services.ExitCode(err); code != services.ExitInvalid {
		t.Fatalf("bad track: expected %d, got %d (%v)", services.ExitInvalid, code, err)
	}
}

func TestInfoRendersTables(t *testing.T) {
	env := setupCLI(t)

	out, _, err := env.run(t, "info", filepath.Join(env.dir, "rip.mkv"))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Matroska", "Title:     Rip", "1h30m0s", "AC-3", "Surround", "default", "font.ttf", "2.0 KiB"} {
		requireContains(t, out, want)
	}
}

func TestInfoJSON(t *testing.T) {
	env := setupCLI(t)

	out, _, err := env.run(t, "info", "--json", filepath.Join(env.dir, "rip.mkv"))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var decoded struct {
		Tracks []struct {
			Codec string `json:"codec"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(decoded.Tracks) != 2 || decoded.Tracks[1].Codec != "AC-3" {
		t.Fatalf("unexpected tracks %+v", decoded.Tracks)
	}
}

func TestExtractTracks(t *testing.T) {
	env := setupCLI(t)
	outDir := filepath.Join(env.dir, "extracted")

	out, _, err := env.run(t, "extract", "tracks", filepath.Join(env.dir, "rip.mkv"), "--id", "1", "--dir", outDir)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	written := strings.TrimSpace(out)
	if filepath.Dir(written) != outDir || !strings.HasPrefix(filepath.Base(written), "rip.mkv_[1]_eng") {
		t.Fatalf("unexpected output %q", written)
	}
	call := env.tools.lastCall()
	if call[0] != "mkvextract" || call[1] != "tracks" || call[3] != "1:"+written {
		t.Fatalf("unexpected mkvextract call %q", call)
	}

	_, _, err = env.run(t, "extract", "tracks", filepath.Join(env.dir, "rip.mkv"), "--id", "5")
	if !errors.Is(err, services.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestExtractAttachments(t *testing.T) {
	env := setupCLI(t)

	out, _, err := env.run(t, "extract", "attachments", filepath.Join(env.dir, "rip.mkv"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(env.dir, "font.ttf") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExtractChapters(t *testing.T) {
	env := setupCLI(t)
	env.tools.chapter = `<?xml version="1.0"?>
<Chapters><EditionEntry><ChapterAtom><ChapterTimeStart>00:00:00.000000000</ChapterTimeStart><ChapterDisplay><ChapterString>Intro</ChapterString><ChapterLanguage>eng</ChapterLanguage></ChapterDisplay></ChapterAtom></EditionEntry></Chapters>`

	out, _, err := env.run(t, "extract", "chapters", filepath.Join(env.dir, "rip.mkv"))
	if err != nil {
		t.Fatalf("extract chapters: %v", err)
	}
	requireContains(t, out, "<ChapterString>Intro</ChapterString>")
}

func TestDoctorReportsVersion(t *testing.T) {
	env := setupCLI(t)

	out, _, err := env.run(t, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "Dependencies")
	requireContains(t, out, "mkvmerge: mkvmerge v90.0")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLI(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := env.run(t, "config", "init", "--path", target); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLI(t)
	if err := os.WriteFile(env.configPath, []byte("[tools]\nmkvmerge = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := env.run(t, "plan", "job.toml")
	if code := services.ExitCode(err); code != services.ExitInvalid {
		t.Fatalf("expected exit %d, got %d (%v)", services.ExitInvalid, code, err)
	}
}
