package language

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	xlanguage "golang.org/x/text/language"

	"mkvmux/internal/services"
)

// Undetermined is the code both standards use for unknown language.
const Undetermined = "und"

const suggestThreshold = 0.8

// IsISO6392 reports whether code is a three letter ISO 639-2 code. Both the
// terminology and bibliographic forms are accepted ("fra" and "fre").
func IsISO6392(code string) bool {
	if len(code) != 3 || strings.ToLower(code) != code {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return inISO6392(code)
}

// IsBCP47 reports whether tag is a well formed IETF language tag. "und" is
// always valid. Subtags must be joined by "-"; x/text would otherwise accept
// "en_US", which mkvmerge does not.
func IsBCP47(tag string) bool {
	if tag == Undetermined {
		return true
	}
	if strings.TrimSpace(tag) != tag || tag == "" || strings.Contains(tag, "_") {
		return false
	}
	_, err := xlanguage.Parse(tag)
	return err == nil
}

// ValidateISO6392 returns a validation error, with a suggestion when one is
// close, for codes IsISO6392 rejects.
func ValidateISO6392(code string) error {
	if IsISO6392(code) {
		return nil
	}
	return invalid("ISO 639-2 language code", code)
}

// ValidateBCP47 is the BCP-47 counterpart to ValidateISO6392.
func ValidateBCP47(tag string) error {
	if IsBCP47(tag) {
		return nil
	}
	return invalid("BCP-47 language tag", tag)
}

func invalid(kind, value string) error {
	msg := value + " is not a valid " + kind
	if s := Suggest(value); s != "" {
		msg += " (did you mean " + s + "?)"
	}
	return services.Wrap(services.ErrValidation, "language", "", msg, nil)
}

// Suggest returns the known code closest to value, or "" when nothing is
// similar enough.
func Suggest(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) < 2 {
		return ""
	}
	best, bestScore := "", float32(0)
	for _, candidate := range candidates() {
		score := edlib.JaroWinklerSimilarity(value, candidate.key)
		if score > bestScore {
			best, bestScore = candidate.code, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}

type candidate struct {
	key  string
	code string
}

func candidates() []candidate {
	out := make([]candidate, 0, len(languages)*4)
	for _, e := range languages {
		out = append(out, candidate{e.code3, e.code3})
		if e.alt3 != "" {
			out = append(out, candidate{e.alt3, e.alt3})
		}
		for _, w := range e.words {
			out = append(out, candidate{w, e.code3})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}
