package command

import (
	"strings"

	"mkvmux/internal/fileutil"
	"mkvmux/internal/mkv"
	"mkvmux/internal/services"
)

// Option adjusts a Build.
type Option func(*Snapshot)

// WithChaptersFile substitutes path for the file's chapter source.
func WithChaptersFile(path string) Option {
	return func(s *Snapshot) { s.ChaptersFile = path }
}

// Build refreshes file ids and renders the mkvmerge arguments for writing f to
// output. The binary is not included.
func Build(f *mkv.File, output string, opts ...Option) ([]string, error) {
	if f == nil {
		return nil, services.TypeErrorf("command", "nil file")
	}
	output = fileutil.ExpandPath(output)
	if output == "" {
		return nil, services.Invalidf("command", "output path is required")
	}
	if err := f.AssignFileIDs(); err != nil {
		return nil, err
	}
	snap := Snapshot{File: f, Output: output}
	for _, opt := range opts {
		if opt != nil {
			opt(&snap)
		}
	}
	return Generate(snap), nil
}

// Generate concatenates every pipeline generator's output.
func Generate(s Snapshot) []string {
	var args []string
	for _, g := range Pipeline {
		args = append(args, g.Generate(s)...)
	}
	return args
}

// Argv prefixes args with the mkvmerge invocation, which may itself be several
// words (for example "flatpak run org.bunkus.mkvtoolnix-gui mkvmerge").
func Argv(binary []string, args []string) []string {
	out := make([]string, 0, len(binary)+len(args))
	out = append(out, binary...)
	return append(out, args...)
}

// Join renders argv as a single space separated string without quoting.
func Join(argv []string) string {
	return strings.Join(argv, " ")
}

// Quote renders argv for pasting into a POSIX shell.
func Quote(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = quoteArg(arg)
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.IndexFunc(arg, needsQuote) < 0 {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=,+@%", r)
}
