package muxer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mkvmux/internal/command"
	"mkvmux/internal/fileutil"
	"mkvmux/internal/logging"
	"mkvmux/internal/mkv"
	"mkvmux/internal/services"
	"mkvmux/internal/services/mkvtoolnix"
)

const progressPhase = "muxing"

// Runner executes mkvmerge with a prepared argument list.
type Runner interface {
	Mux(ctx context.Context, args []string, progress func(mkvtoolnix.Progress)) (mkvtoolnix.Result, error)
}

// Options tune a Muxer.
type Options struct {
	// LockOutput holds <output>.lock for the duration of a run.
	LockOutput bool
	// BucketPercent controls how often progress is logged.
	BucketPercent int
	// TempDir receives temporary chapter files. Empty uses os.TempDir.
	TempDir string
}

// Request describes a single mux.
type Request struct {
	File   *mkv.File
	Output string
	// Progress, when set, receives every percentage mkvmerge reports.
	Progress func(percent int)
}

// Result reports the outcome of a mux.
type Result struct {
	Output        string
	Args          []string
	Warnings      []string
	ExitCode      int
	Elapsed       time.Duration
	CorrelationID string
}

// Muxer writes Matroska files using mkvmerge.
type Muxer struct {
	runner Runner
	logger *slog.Logger
	opts   Options
}

// New constructs a muxer.
func New(runner Runner, logger *slog.Logger, opts Options) *Muxer {
	return &Muxer{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "muxer"),
		opts:   opts,
	}
}

// Plan returns the mkvmerge arguments for writing f to output. In-memory
// chapters are written to a temporary file; call cleanup once the arguments
// are no longer needed.
func (m *Muxer) Plan(f *mkv.File, output string) (args []string, cleanup func(), err error) {
	cleanup = func() {}
	if f == nil {
		return nil, cleanup, services.TypeErrorf("muxer", "nil file")
	}
	var opts []command.Option
	if tree := f.ChapterTree(); tree != nil && f.ChaptersFile() == "" {
		path := filepath.Join(m.tempDir(), "mkvmux-chapters-"+uuid.NewString()+".xml")
		if err := tree.WriteFile(path); err != nil {
			return nil, cleanup, services.Wrap(services.ErrConfiguration, "muxer", "write chapters", path, err)
		}
		cleanup = func() { _ = os.Remove(path) }
		opts = append(opts, command.WithChaptersFile(path))
	}
	args, err = command.Build(f, output, opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return args, cleanup, nil
}

func (m *Muxer) tempDir() string {
	if m.opts.TempDir != "" {
		return m.opts.TempDir
	}
	return os.TempDir()
}

// Mux writes req.File to req.Output.
func (m *Muxer) Mux(ctx context.Context, req Request) (Result, error) {
	if m == nil || m.runner == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "muxer", "mux", "muxer not initialized", nil)
	}
	if req.File == nil {
		return Result{}, services.TypeErrorf("muxer", "nil file")
	}
	output := fileutil.ExpandPath(req.Output)
	if output == "" {
		return Result{}, services.Invalidf("muxer", "output path is required")
	}
	if req.File.TrackCount() == 0 && len(req.File.Attachments()) == 0 {
		return Result{}, services.Invalidf("muxer", "nothing to mux into %s", output)
	}
	if err := fileutil.EnsureDir(filepath.Dir(output)); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "muxer", "mux", "create output directory", err)
	}

	correlationID := uuid.NewString()
	ctx = services.WithOperation(ctx, "mux")
	ctx = services.WithOutputPath(ctx, output)
	ctx = services.WithRequestID(ctx, correlationID)
	logger := logging.WithContext(ctx, m.logger)

	if m.opts.LockOutput {
		lock := flock.New(output + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return Result{}, services.Wrap(services.ErrConfiguration, "muxer", "lock output", output, err)
		}
		if !locked {
			return Result{}, services.Invalidf("muxer", "%s is already being written by another mux", output)
		}
		defer func() {
			_ = lock.Unlock()
			_ = os.Remove(lock.Path())
		}()
	}

	args, cleanup, err := m.Plan(req.File, output)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	logger.Info("mux started",
		logging.String(logging.FieldEventType, "mux_started"),
		logging.Int("track_count", req.File.TrackCount()),
		logging.Int("source_count", len(req.File.SourcePaths())),
		logging.Int("attachment_count", len(req.File.Attachments())),
	)
	logger.Debug("mkvmerge arguments", logging.String("command", command.Quote(args)))

	sampler := logging.NewProgressSampler(m.opts.BucketPercent)
	sampler.ShouldLog(-1, progressPhase)
	run, err := m.runner.Mux(ctx, args, func(p mkvtoolnix.Progress) {
		if req.Progress != nil {
			req.Progress(p.Percent)
		}
		if sampler.ShouldLog(p.Percent, progressPhase) {
			logger.Info("mux progress", logging.Int(logging.FieldProgressPercent, p.Percent))
		}
	})
	result := Result{
		Output:        output,
		Args:          args,
		Warnings:      run.Warnings,
		ExitCode:      run.ExitCode,
		Elapsed:       run.Elapsed,
		CorrelationID: correlationID,
	}
	if err != nil {
		logging.ErrorWithContext(logger, "mux failed", "mux_failed",
			logging.Error(err),
			logging.Int("exit_code", run.ExitCode),
		)
		return result, err
	}

	logger.Info("mux complete",
		logging.String(logging.FieldEventType, "mux_complete"),
		logging.Duration("elapsed", run.Elapsed),
		logging.Int("warning_count", len(run.Warnings)),
	)
	return result, nil
}
