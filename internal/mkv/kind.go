package mkv

import "strings"

// Kind is the elementary stream type.
type Kind string

const (
	KindVideo     Kind = "video"
	KindAudio     Kind = "audio"
	KindSubtitles Kind = "subtitles"
)

// ParseKind maps mkvmerge's track type strings onto Kind. Unknown types such
// as "buttons" are returned as-is so they are still excluded by selection.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	case "subtitles", "subtitle":
		return KindSubtitles
	default:
		return Kind(strings.ToLower(strings.TrimSpace(s)))
	}
}

// extensions maps codec names, as reported by mkvmerge, to the file
// extension mkvextract output should use.
var extensions = map[Kind]map[string]string{
	KindVideo: {
		"V_MPEG1":             "mpg",
		"V_MPEG2":             "mpg",
		"MPEG-1/2":            "mpg",
		"V_MPEG4/ISO/AVC":     "264",
		"MPEG-4p10":           "h264",
		"AVC/H.264/MPEG-4p10": "h264",
		"HEVC":                "h265",
		"HEVC/H.265/MPEG-H":   "h265",
		"AV1":                 "ivf",
		"V_MS/VFW/FOURCC":     "avi",
		"V_REAL":              "rm",
		"V_THEORA":            "ogg",
		"V_VP8":               "ivf",
		"V_VP9":               "ivf",
		"VP8":                 "ivf",
		"VP9":                 "ivf",
	},
	KindAudio: {
		"AAC":          "aac",
		"AC3":          "ac3",
		"AC-3":         "ac3",
		"E-AC-3":       "eac3",
		"ALAC":         "caf",
		"DTS":          "dts",
		"DTS-HD":       "dts",
		"FLAC":         "flac",
		"MPEG/L2":      "mp2",
		"MPEG/L3":      "mp3",
		"MP3":          "mp3",
		"OPUS":         "ogg",
		"Opus":         "ogg",
		"PCM":          "wav",
		"REAL":         "ra",
		"TRUEHD":       "thd",
		"TrueHD":       "thd",
		"MLP":          "mlp",
		"TTA1":         "tta",
		"VORBIS":       "ogg",
		"Vorbis":       "ogg",
		"WAVPACK4":     "wv",
		"WavPack4":     "wv",
		"VC-1":         "wvc",
		"TrueHD Atmos": "thd",
	},
	KindSubtitles: {
		"PGS":             "sup",
		"HDMV PGS":        "sup",
		"ASS":             "ass",
		"SubStationAlpha": "ass",
		"SSA":             "ssa",
		"UTF8":            "srt",
		"SubRip/SRT":      "srt",
		"ASCII":           "srt",
		"VOBSUB":          "sub",
		"VobSub":          "sub",
		"USF":             "usf",
		"WEBVTT":          "vtt",
		"WebVTT":          "vtt",
	},
}

// ExtensionFor returns the extraction extension for a codec, or "" when the
// codec is unknown for that kind.
func ExtensionFor(kind Kind, codec string) string {
	return extensions[kind][codec]
}
