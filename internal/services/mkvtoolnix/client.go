package mkvtoolnix

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mkvmux/internal/chapters"
	"mkvmux/internal/fileutil"
	"mkvmux/internal/media/identify"
	"mkvmux/internal/mkv"
	"mkvmux/internal/services"
)

const scope = "mkvtoolnix"

// Progress is one "Progress: NN%" report from mkvmerge.
type Progress struct {
	Percent int
}

// Result summarises a finished mux.
type Result struct {
	ExitCode int
	Warnings []string
	Elapsed  time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger routes tool diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each mux and extraction. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithIgnoreWarnings treats mkvmerge exit status 1 as success.
func WithIgnoreWarnings(ignore bool) Option {
	return func(c *Client) { c.ignoreWarnings = ignore }
}

// Client wraps mkvmerge and mkvextract invocations. Each tool is an argv
// prefix so wrappers such as "flatpak run ... mkvmerge" work.
type Client struct {
	mkvmerge       []string
	mkvextract     []string
	timeout        time.Duration
	ignoreWarnings bool
	exec           Executor
	logger         *slog.Logger
}

// New constructs a client. Empty tool prefixes fall back to the bare names.
func New(mkvmerge, mkvextract []string, opts ...Option) *Client {
	c := &Client{
		mkvmerge:   defaultTool(mkvmerge, "mkvmerge"),
		mkvextract: defaultTool(mkvextract, "mkvextract"),
		exec:       commandExecutor{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultTool(argv []string, name string) []string {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return []string{name}
	}
	return append([]string(nil), argv...)
}

// Mkvmerge returns the mkvmerge argv prefix.
func (c *Client) Mkvmerge() []string { return append([]string(nil), c.mkvmerge...) }

// Mkvextract returns the mkvextract argv prefix.
func (c *Client) Mkvextract() []string { return append([]string(nil), c.mkvextract...) }

func (c *Client) run(ctx context.Context, tool []string, args []string, onLine func(Stream, string)) error {
	full := append(append([]string(nil), tool[1:]...), args...)
	return c.exec.Run(ctx, tool[0], full, onLine)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// capture runs a tool and collects its stdout. stderr lines are returned
// separately for error messages.
func (c *Client) capture(ctx context.Context, tool []string, args []string) ([]byte, []string, error) {
	var out bytes.Buffer
	var diag []string
	err := c.run(ctx, tool, args, func(stream Stream, line string) {
		if stream == Stderr {
			diag = append(diag, line)
			return
		}
		out.WriteString(line)
		out.WriteByte('\n')
	})
	return out.Bytes(), diag, err
}

var versionPattern = regexp.MustCompile(`^mkvmerge v\S+`)

// Version runs `mkvmerge -V` and returns the first line of its output.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, diag, err := c.capture(ctx, c.mkvmerge, []string{"-V"})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, scope, "version", joinDiag(diag), err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// VerifyMkvmerge confirms the configured binary runs and identifies itself
// as mkvmerge.
func (c *Client) VerifyMkvmerge(ctx context.Context) error {
	version, err := c.Version(ctx)
	if err != nil {
		return err
	}
	if !versionPattern.MatchString(version) {
		return services.Wrap(services.ErrExternalTool, scope, "version",
			"unexpected version output "+strconv.Quote(version), nil)
	}
	return nil
}

// Identify runs `mkvmerge -J` against path. It satisfies mkv.Inspector.
func (c *Client) Identify(ctx context.Context, path string) (identify.Info, error) {
	path = fileutil.ExpandPath(path)
	if path == "" {
		return identify.Info{}, services.Invalidf(scope, "identify: empty path")
	}
	out, diag, err := c.capture(ctx, c.mkvmerge, []string{"-J", path})
	if err != nil {
		// mkvmerge still prints JSON when it cannot recognise the file.
		if code, ok := exitCode(err); ok && code != 0 && len(bytes.TrimSpace(out)) > 0 {
			if info, decodeErr := identify.Decode(out); decodeErr == nil {
				return info, nil
			}
		}
		return identify.Info{}, services.Wrap(services.ErrExternalTool, scope, "identify", joinDiag(diag), err)
	}
	return identify.Decode(out)
}

// VerifyRecognized reports whether mkvmerge recognises path.
func (c *Client) VerifyRecognized(ctx context.Context, path string) (bool, error) {
	info, err := c.Identify(ctx, path)
	if err != nil {
		return false, err
	}
	return info.Container.Recognized, nil
}

// VerifySupported reports whether mkvmerge can read path as an input.
func (c *Client) VerifySupported(ctx context.Context, path string) (bool, error) {
	info, err := c.Identify(ctx, path)
	if err != nil {
		return false, err
	}
	return info.Container.Recognized && info.Container.Supported, nil
}

// VerifyMatroska reports whether path is a Matroska container.
func (c *Client) VerifyMatroska(ctx context.Context, path string) (bool, error) {
	info, err := c.Identify(ctx, path)
	if err != nil {
		return false, err
	}
	return info.IsMatroska(), nil
}

var progressPattern = regexp.MustCompile(`^Progress:\s*(\d{1,3})%`)

func parseProgress(line string) (Progress, bool) {
	m := progressPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Progress{}, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil || pct > 100 {
		return Progress{}, false
	}
	return Progress{Percent: pct}, true
}

// Mux runs mkvmerge with args, which must not include the binary. Exit
// status 1 means mkvmerge finished with warnings; it is reported through
// Result and only fails the call when warnings are not ignored.
func (c *Client) Mux(ctx context.Context, args []string, progress func(Progress)) (Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var warnings, errs []string
	err := c.run(ctx, c.mkvmerge, args, func(stream Stream, line string) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "Warning:"):
			warnings = append(warnings, trimmed)
		case strings.HasPrefix(trimmed, "Error:"):
			errs = append(errs, trimmed)
		default:
			if p, ok := parseProgress(trimmed); ok {
				if progress != nil {
					progress(p)
				}
				return
			}
			if stream == Stderr {
				errs = append(errs, trimmed)
			}
		}
	})
	result := Result{Warnings: warnings, Elapsed: time.Since(start)}
	if err == nil {
		for _, w := range warnings {
			c.logger.Warn("mkvmerge warning", slog.String("detail", w))
		}
		return result, nil
	}

	code, ok := exitCode(err)
	result.ExitCode = code
	if ok && code == 1 && c.ignoreWarnings {
		c.logger.Warn("mkvmerge completed with warnings",
			slog.Int("exit_code", code),
			slog.Int("warning_count", len(warnings)),
		)
		return result, nil
	}
	detail := joinDiag(append(errs, warnings...))
	if ok {
		detail = strings.TrimSpace("exit status " + strconv.Itoa(code) + ": " + detail)
	}
	c.logger.Error("mkvmerge failed",
		slog.Int("exit_code", code),
		slog.String("error_detail", detail),
	)
	return result, services.Wrap(services.ErrExternalTool, scope, "mux", detail, err)
}

// ExtractTrack writes one track with mkvextract. When dir is empty the file
// is placed next to its source. The written path is returned.
func (c *Client) ExtractTrack(ctx context.Context, t *mkv.Track, dir string) (string, error) {
	if t == nil {
		return "", services.TypeErrorf(scope, "extract track: nil track")
	}
	out, err := targetPath(t.Path(), dir, t.ExtractName())
	if err != nil {
		return "", err
	}
	if err := c.extract(ctx, "extract track", "tracks", t.Path(), t.TrackID(), out); err != nil {
		return "", err
	}
	return out, nil
}

// ExtractAttachment writes an attachment stored in a source container. New
// attachments have nothing to extract.
func (c *Client) ExtractAttachment(ctx context.Context, a *mkv.Attachment, dir string) (string, error) {
	if a == nil {
		return "", services.TypeErrorf(scope, "extract attachment: nil attachment")
	}
	source, id, ok := a.Source()
	if !ok {
		return "", services.Invalidf(scope, "attachment %q was not read from a container", a.Path())
	}
	name := fileutil.SanitizeFileName(a.FileName())
	if name == "" {
		name = "attachment_" + strconv.Itoa(id)
	}
	out, err := targetPath(source, dir, name)
	if err != nil {
		return "", err
	}
	if err := c.extract(ctx, "extract attachment", "attachments", source, id, out); err != nil {
		return "", err
	}
	return out, nil
}

// ExtractTimestamps writes a track's timestamps in v2 format.
func (c *Client) ExtractTimestamps(ctx context.Context, t *mkv.Track, dir string) (string, error) {
	if t == nil {
		return "", services.TypeErrorf(scope, "extract timestamps: nil track")
	}
	name := filepath.Base(t.Path()) + "_[" + strconv.Itoa(t.TrackID()) + "]_timestamps.txt"
	out, err := targetPath(t.Path(), dir, name)
	if err != nil {
		return "", err
	}
	if err := c.extract(ctx, "extract timestamps", "timestamps_v2", t.Path(), t.TrackID(), out); err != nil {
		return "", err
	}
	return out, nil
}

// ExtractChapters reads the chapter document stored in path. A file without
// chapters yields nil.
func (c *Client) ExtractChapters(ctx context.Context, path string) (*chapters.Chapters, error) {
	path, err := fileutil.CheckFile(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	out, diag, err := c.capture(ctx, c.mkvextract, []string{"chapters", path})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, scope, "extract chapters", joinDiag(diag), err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}
	return chapters.Decode(bytes.NewReader(out))
}

func (c *Client) extract(ctx context.Context, op, mode, source string, id int, out string) error {
	if _, err := fileutil.CheckFile(source); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	_, diag, err := c.capture(ctx, c.mkvextract, []string{mode, source, strconv.Itoa(id) + ":" + out})
	if err != nil {
		removeIfEmpty(out)
		return services.Wrap(services.ErrExternalTool, scope, op, joinDiag(diag), err)
	}
	c.logger.Debug("mkvextract finished", slog.String("mode", mode), slog.String("source", source))
	return nil
}

func targetPath(source, dir, name string) (string, error) {
	if dir == "" {
		dir = filepath.Dir(source)
	}
	dir = fileutil.ExpandPath(dir)
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", services.Wrap(services.ErrConfiguration, scope, "extract", "create output directory", err)
	}
	return filepath.Join(dir, name), nil
}

func joinDiag(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "; "))
}

var _ mkv.Inspector = (*Client)(nil)

// removeIfEmpty deletes a zero-length file left behind by a failed tool run.
func removeIfEmpty(path string) {
	if info, err := os.Stat(path); err == nil && info.Size() == 0 {
		_ = os.Remove(path)
	}
}
