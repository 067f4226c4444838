package split

import (
	"math"
	"strconv"
	"strings"

	"mkvmux/internal/services"
	"mkvmux/internal/timestamp"
)

// Mode identifies the active split strategy.
type Mode int

const (
	ModeNone Mode = iota
	ModeSize
	ModeDuration
	ModeTimestamps
	ModeFrames
	ModeTimestampParts
	ModeFrameParts
	ModeChapters
)

var modeNames = map[Mode]string{
	ModeNone:           "none",
	ModeSize:           "size",
	ModeDuration:       "duration",
	ModeTimestamps:     "timestamps",
	ModeFrames:         "frames",
	ModeTimestampParts: "timestamp-parts",
	ModeFrameParts:     "frame-parts",
	ModeChapters:       "chapters",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode looks up a mode by its String form.
func ParseMode(name string) (Mode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ModeNone, true
	}
	for m, n := range modeNames {
		if n == name {
			return m, true
		}
	}
	return ModeNone, false
}

// Spec is one validated split strategy plus the link flag.
type Spec struct {
	mode  Mode
	value string
	link  bool
}

// None disables splitting.
func None() Spec { return Spec{} }

func (s Spec) Mode() Mode    { return s.mode }
func (s Spec) Value() string { return s.value }
func (s Spec) Linked() bool  { return s.link }

// WithLink returns a copy with the --link flag toggled. It has no effect when
// splitting is disabled.
func (s Spec) WithLink(link bool) Spec {
	if s.mode == ModeNone {
		return s
	}
	s.link = link
	return s
}

// Args renders the tokens appended to the mkvmerge command line.
func (s Spec) Args() []string {
	if s.mode == ModeNone {
		return nil
	}
	args := []string{"--split", s.value}
	if s.link {
		args = append(args, "--link")
	}
	return args
}

func (s Spec) String() string { return strings.Join(s.Args(), " ") }

// BySize splits whenever the output reaches size bytes. Accepts integer byte
// counts or a Size.
func BySize(size any) (Spec, error) {
	var bytes uint64
	switch v := size.(type) {
	case Size:
		bytes = v.Bytes()
	case *Size:
		if v == nil {
			return Spec{}, services.TypeErrorf("split", "size is nil")
		}
		bytes = v.Bytes()
	default:
		n, ok := asInt(size)
		if !ok {
			return Spec{}, services.TypeErrorf("split", "size %v (%T) is not a Size or integer", size, size)
		}
		if n < 0 {
			return Spec{}, services.Invalidf("split", "negative size %d", n)
		}
		bytes = uint64(n)
	}
	if bytes == 0 {
		return Spec{}, services.Invalidf("split", "size must be positive")
	}
	return Spec{mode: ModeSize, value: "size:" + strconv.FormatUint(bytes, 10)}, nil
}

// ByDuration splits every duration. Accepts anything timestamp.From does.
func ByDuration(duration any) (Spec, error) {
	ts, err := timestamp.From(duration)
	if err != nil {
		return Spec{}, err
	}
	return Spec{mode: ModeDuration, value: "duration:" + ts.String()}, nil
}

// ByTimestamps splits at each point, which must be strictly increasing.
func ByTimestamps(points ...any) (Spec, error) {
	flat := Flatten(points...)
	if len(flat) == 0 {
		return Spec{}, services.Invalidf("split", "no timestamps given")
	}
	stamps := make([]timestamp.Timestamp, 0, len(flat))
	for _, p := range flat {
		if p == nil {
			return Spec{}, services.Invalidf("split", "timestamps may not contain empty points")
		}
		ts, err := timestamp.From(p)
		if err != nil {
			return Spec{}, err
		}
		stamps = append(stamps, ts)
	}
	rendered := make([]string, 0, len(stamps))
	for i, ts := range stamps {
		if i > 0 && !stamps[i-1].Before(ts) {
			return Spec{}, services.Invalidf("split", "timestamp %s is not after %s", ts, stamps[i-1])
		}
		rendered = append(rendered, ts.String())
	}
	return Spec{mode: ModeTimestamps, value: "timestamps:" + strings.Join(rendered, ",")}, nil
}

// ByFrames splits at each frame number, which must be strictly increasing.
func ByFrames(frames ...any) (Spec, error) {
	ints, err := strictInts("frame", Flatten(frames...), 0)
	if err != nil {
		return Spec{}, err
	}
	return Spec{mode: ModeFrames, value: "frames:" + joinInts(ints)}, nil
}

// ByChapters splits before the listed chapter numbers (1-based). With no
// arguments it splits before every chapter.
func ByChapters(chapters ...any) (Spec, error) {
	if len(chapters) == 0 {
		return Spec{mode: ModeChapters, value: "chapters:all"}, nil
	}
	ints, err := strictInts("chapter", Flatten(chapters...), 1)
	if err != nil {
		return Spec{}, err
	}
	return Spec{mode: ModeChapters, value: "chapters:" + joinInts(ints)}, nil
}

// ByTimestampParts keeps only the given ranges. Each set is an even number of
// start/end points; ranges inside one set are written to a single file. Only the
// very first and very last point may be nil, meaning open ended.
func ByTimestampParts(sets ...any) (Spec, error) {
	value, err := buildParts(sets, func(p any) (string, error) {
		ts, err := timestamp.From(p)
		if err != nil {
			return "", err
		}
		return ts.String(), nil
	}, func(a, b any) (bool, error) {
		ta, err := timestamp.From(a)
		if err != nil {
			return false, err
		}
		tb, err := timestamp.From(b)
		if err != nil {
			return false, err
		}
		return ta.Before(tb), nil
	})
	if err != nil {
		return Spec{}, err
	}
	return Spec{mode: ModeTimestampParts, value: value}, nil
}

// ByFrameParts is ByTimestampParts with frame numbers.
func ByFrameParts(sets ...any) (Spec, error) {
	value, err := buildParts(sets, func(p any) (string, error) {
		n, ok := asInt(p)
		if !ok {
			return "", services.TypeErrorf("split", "frame %v (%T) is not an int", p, p)
		}
		return strconv.FormatInt(n, 10), nil
	}, func(a, b any) (bool, error) {
		na, okA := asInt(a)
		nb, okB := asInt(b)
		if !okA || !okB {
			return false, services.TypeErrorf("split", "frames %v and %v must be ints", a, b)
		}
		return na < nb, nil
	})
	if err != nil {
		return Spec{}, err
	}
	return Spec{mode: ModeFrameParts, value: value}, nil
}

type renderFunc func(any) (string, error)
type lessFunc func(a, b any) (bool, error)

func buildParts(sets []any, render renderFunc, less lessFunc) (string, error) {
	flat := Flatten(sets...)
	if len(flat) == 0 {
		return "", services.Invalidf("split", "no parts given")
	}
	for i := 1; i < len(flat)-1; i++ {
		if flat[i] == nil {
			return "", services.Invalidf("split", "only the first and last part boundary may be open")
		}
	}
	for i := 1; i < len(flat); i++ {
		if flat[i-1] == nil || flat[i] == nil {
			continue
		}
		ok, err := less(flat[i-1], flat[i])
		if err != nil {
			return "", err
		}
		if !ok {
			return "", services.Invalidf("split", "part boundary %v is not after %v", flat[i], flat[i-1])
		}
	}

	groups := make([]string, 0, len(sets))
	for _, set := range sets {
		if !isSequenceValue(set) {
			return "", services.TypeErrorf("split", "part set %v (%T) is not a list", set, set)
		}
		points := Flatten(set)
		if len(points) < 2 || len(points)%2 != 0 {
			return "", services.Invalidf("split", "part set %v must hold an even number of points", points)
		}
		ranges := make([]string, 0, len(points)/2)
		for i := 0; i < len(points); i += 2 {
			start, err := renderBoundary(points[i], render)
			if err != nil {
				return "", err
			}
			end, err := renderBoundary(points[i+1], render)
			if err != nil {
				return "", err
			}
			ranges = append(ranges, start+"-"+end)
		}
		// A leading '+' appends the range to the previous file.
		groups = append(groups, strings.Join(ranges, ",+"))
	}
	return "parts:" + strings.Join(groups, ","), nil
}

func renderBoundary(p any, render renderFunc) (string, error) {
	if p == nil {
		return "", nil
	}
	return render(p)
}

func strictInts(kind string, flat []any, min int64) ([]int64, error) {
	if len(flat) == 0 {
		return nil, services.Invalidf("split", "no %ss given", kind)
	}
	out := make([]int64, 0, len(flat))
	for _, v := range flat {
		if v == nil {
			return nil, services.Invalidf("split", "%ss may not contain empty points", kind)
		}
		n, ok := asInt(v)
		if !ok {
			return nil, services.TypeErrorf("split", "%s %v (%T) is not an int", kind, v, v)
		}
		if n < min {
			return nil, services.Invalidf("split", "%s %d is below %d", kind, n, min)
		}
		if len(out) > 0 && out[len(out)-1] >= n {
			return nil, services.Invalidf("split", "%s %d is not after %d", kind, n, out[len(out)-1])
		}
		out = append(out, n)
	}
	return out, nil
}

func joinInts(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
