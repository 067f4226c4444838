package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2/T (3-letter)
	alt3    string   // ISO 639-2/B where it differs (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"fa", "fas", "per", "Persian", []string{"persian", "farsi"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
	{"ro", "ron", "rum", "Romanian", []string{"romanian"}},
	{"sk", "slk", "slo", "Slovak", []string{"slovak"}},
	{"is", "isl", "ice", "Icelandic", []string{"icelandic"}},
	{"mk", "mkd", "mac", "Macedonian", []string{"macedonian"}},
	{"ms", "msa", "may", "Malay", []string{"malay"}},
	{"sq", "sqi", "alb", "Albanian", []string{"albanian"}},
	{"hy", "hye", "arm", "Armenian", []string{"armenian"}},
	{"ka", "kat", "geo", "Georgian", []string{"georgian"}},
	{"eu", "eus", "baq", "Basque", []string{"basque"}},
	{"my", "mya", "bur", "Burmese", []string{"burmese"}},
	{"cy", "cym", "wel", "Welsh", []string{"welsh"}},
	{"bo", "bod", "tib", "Tibetan", []string{"tibetan"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Canonical maps English names and ISO 639-1 codes onto their ISO 639-2/T
// code ("german" and "de" become "deu"). Three letter codes are only
// lowercased, so bibliographic forms such as "ger" survive. Anything else is
// returned trimmed for the validators to judge.
func Canonical(code string) string {
	trimmed := strings.TrimSpace(code)
	lower := strings.ToLower(trimmed)
	if len(lower) == 3 {
		if _, ok := byCode3[lower]; ok {
			return lower
		}
		return trimmed
	}
	if e := lookup(lower); e != nil {
		return e.code3
	}
	return trimmed
}

// DisplayName returns a human-readable language name for any recognized code.
// BCP-47 tags are resolved through their primary subtag.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || trimmed == Undetermined {
		return "Undetermined"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if primary, _, ok := strings.Cut(trimmed, "-"); ok {
		if e := lookup(primary); e != nil {
			return e.display + " (" + trimmed + ")"
		}
	}
	return strings.ToUpper(trimmed)
}
