package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mkvmux/internal/services"
)

// DefaultForm is the template used when none is supplied.
const DefaultForm = "MM:SS"

const (
	maxMinutes = 60
	maxSeconds = 60
	maxNanos   = 1_000_000_000
)

var (
	verifyPattern = regexp.MustCompile(`^[0-9]{1,2}(:[0-9]{1,2}){1,2}(\.[0-9]{1,9})?$`)
	parsePattern  = regexp.MustCompile(`^(([0-9]{1,2}):)?([0-9]{1,2}):([0-9]{1,2})(\.([0-9]{1,9}))?$`)
	formPattern   = regexp.MustCompile(`^(([Hh]{1,2}):)?([Mm]{1,2}):([Ss]{1,2})(\.([Nn]{1,9}))?$`)
)

// Timestamp is an hours/minutes/seconds/nanoseconds position.
type Timestamp struct {
	hh   int
	mm   int
	ss   int
	nn   int
	form string
}

// Option overrides a component of a Timestamp at construction time.
type Option func(*overrides)

type overrides struct {
	hh, mm, ss, nn *int
	form           string
}

// WithHours forces the hours component.
func WithHours(v int) Option { return func(o *overrides) { o.hh = &v } }

// WithMinutes forces the minutes component.
func WithMinutes(v int) Option { return func(o *overrides) { o.mm = &v } }

// WithSeconds forces the seconds component.
func WithSeconds(v int) Option { return func(o *overrides) { o.ss = &v } }

// WithNanos forces the nanoseconds component.
func WithNanos(v int) Option { return func(o *overrides) { o.nn = &v } }

// WithForm sets the rendering template.
func WithForm(form string) Option { return func(o *overrides) { o.form = form } }

// New builds a Timestamp purely from overrides; unset components are zero.
func New(opts ...Option) (Timestamp, error) {
	return build(Timestamp{}, opts)
}

// Parse reads a "[HH:]MM:SS[.n]" string. Overrides win over parsed components.
func Parse(value string, opts ...Option) (Timestamp, error) {
	groups := parsePattern.FindStringSubmatch(value)
	if groups == nil || !verifyPattern.MatchString(value) {
		return Timestamp{}, services.Invalidf("timestamp", "%q is not a valid timestamp", value)
	}
	var base Timestamp
	base.SetHours(atoi(groups[2]))
	base.SetMinutes(atoi(groups[3]))
	base.SetSeconds(atoi(groups[4]))
	if frac := groups[6]; frac != "" {
		// ".5" is half a second, so pad the digits out to nanosecond precision.
		base.SetNanos(atoi(frac + strings.Repeat("0", 9-len(frac))))
	}
	return build(base, opts)
}

// FromSeconds splits a whole number of seconds into components.
func FromSeconds(seconds int, opts ...Option) (Timestamp, error) {
	if seconds < 0 {
		return Timestamp{}, services.Invalidf("timestamp", "negative seconds %d", seconds)
	}
	base := Timestamp{
		hh: seconds / 3600,
		mm: seconds % 3600 / 60,
		ss: seconds % 60,
	}
	return build(base, opts)
}

// From accepts a string, an integer number of seconds, or a Timestamp.
func From(value any, opts ...Option) (Timestamp, error) {
	switch v := value.(type) {
	case Timestamp:
		return build(v, opts)
	case *Timestamp:
		if v == nil {
			return Timestamp{}, services.TypeErrorf("timestamp", "nil timestamp")
		}
		return build(*v, opts)
	case string:
		return Parse(v, opts...)
	case int:
		return FromSeconds(v, opts...)
	case int64:
		return FromSeconds(int(v), opts...)
	case int32:
		return FromSeconds(int(v), opts...)
	case time.Duration:
		return FromDuration(v, opts...)
	default:
		return Timestamp{}, services.TypeErrorf("timestamp", "%T is not a string, int, or Timestamp", value)
	}
}

// FromDuration converts a non-negative time.Duration, keeping sub-second precision.
func FromDuration(d time.Duration, opts ...Option) (Timestamp, error) {
	if d < 0 {
		return Timestamp{}, services.Invalidf("timestamp", "negative duration %s", d)
	}
	whole := int(d / time.Second)
	base := Timestamp{
		hh: whole / 3600,
		mm: whole % 3600 / 60,
		ss: whole % 60,
		nn: int(d % time.Second),
	}
	return build(base, opts)
}

// Verify reports whether value is a timestamp string mkvmerge accepts.
func Verify(value string) bool {
	return verifyPattern.MatchString(value)
}

// MustParse is Parse for literals known to be valid.
func MustParse(value string, opts ...Option) Timestamp {
	ts, err := Parse(value, opts...)
	if err != nil {
		panic(err)
	}
	return ts
}

func build(base Timestamp, opts []Option) (Timestamp, error) {
	var o overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	ts := base
	if o.hh != nil {
		ts.SetHours(*o.hh)
	}
	if o.mm != nil {
		ts.SetMinutes(*o.mm)
	}
	if o.ss != nil {
		ts.SetSeconds(*o.ss)
	}
	if o.nn != nil {
		ts.SetNanos(*o.nn)
	}
	if o.form != "" {
		if err := ts.SetForm(o.form); err != nil {
			return Timestamp{}, err
		}
	}
	return ts, nil
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func (t Timestamp) Hours() int   { return t.hh }
func (t Timestamp) Minutes() int { return t.mm }
func (t Timestamp) Seconds() int { return t.ss }
func (t Timestamp) Nanos() int   { return t.nn }

// Form returns the rendering template, falling back to DefaultForm.
func (t Timestamp) Form() string {
	if t.form == "" {
		return DefaultForm
	}
	return t.form
}

// SetHours stores hours; negative values reset to zero.
func (t *Timestamp) SetHours(v int) {
	if v < 0 {
		v = 0
	}
	t.hh = v
}

// SetMinutes stores minutes; values of 60 or more reset to zero.
func (t *Timestamp) SetMinutes(v int) { t.mm = clamp(v, maxMinutes) }

// SetSeconds stores seconds; values of 60 or more reset to zero.
func (t *Timestamp) SetSeconds(v int) { t.ss = clamp(v, maxSeconds) }

// SetNanos stores nanoseconds; a full second or more resets to zero.
func (t *Timestamp) SetNanos(v int) { t.nn = clamp(v, maxNanos) }

// SetForm replaces the rendering template after checking its shape.
func (t *Timestamp) SetForm(form string) error {
	if !formPattern.MatchString(form) {
		return services.Invalidf("timestamp", "%q is not a valid timestamp form", form)
	}
	t.form = form
	return nil
}

func clamp(v, limit int) int {
	if v < 0 || v >= limit {
		return 0
	}
	return v
}

// String renders with the configured form.
func (t Timestamp) String() string {
	out, err := t.Format(t.Form())
	if err != nil {
		out, _ = t.Format(DefaultForm)
	}
	return out
}

// Format renders using the given template. Hours are written when the template
// has an HH group or hours are non-zero; the fraction likewise for NN.
func (t Timestamp) Format(form string) (string, error) {
	groups := formPattern.FindStringSubmatch(form)
	if groups == nil {
		return "", services.Invalidf("timestamp", "%q is not a valid timestamp form", form)
	}
	var b strings.Builder
	if groups[2] != "" || t.hh != 0 {
		fmt.Fprintf(&b, "%02d:", t.hh)
	}
	fmt.Fprintf(&b, "%02d:%02d", t.mm, t.ss)
	if groups[6] != "" || t.nn != 0 {
		if t.nn == 0 {
			b.WriteString(".0")
		} else {
			b.WriteString("." + strings.TrimRight(fmt.Sprintf("%09d", t.nn), "0"))
		}
	}
	return b.String(), nil
}

// Compare orders component-wise by hours, minutes, seconds, then nanoseconds.
func (t Timestamp) Compare(other Timestamp) int {
	pairs := [4][2]int{{t.hh, other.hh}, {t.mm, other.mm}, {t.ss, other.ss}, {t.nn, other.nn}}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

func (t Timestamp) Before(other Timestamp) bool { return t.Compare(other) < 0 }
func (t Timestamp) After(other Timestamp) bool  { return t.Compare(other) > 0 }

// Equal ignores the rendering form.
func (t Timestamp) Equal(other Timestamp) bool { return t.Compare(other) == 0 }

// Duration converts to a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.hh)*time.Hour +
		time.Duration(t.mm)*time.Minute +
		time.Duration(t.ss)*time.Second +
		time.Duration(t.nn)
}

// MarshalText renders the timestamp so it can be embedded in TOML or JSON.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses the textual form produced by MarshalText.
func (t *Timestamp) UnmarshalText(data []byte) error {
	parsed, err := Parse(strings.TrimSpace(string(data)), WithForm(t.Form()))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
