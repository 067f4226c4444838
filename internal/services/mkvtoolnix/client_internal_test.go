package mkvtoolnix

import "testing"

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line string
		want int
		ok   bool
	}{
		{"Progress: 0%", 0, true},
		{"Progress: 42%", 42, true},
		{"  Progress: 100%  ", 100, true},
		{"Progress: 101%", 0, false},
		{"Progress: abc%", 0, false},
		{"#GUI#progress 42%", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseProgress(tt.line)
		if ok != tt.ok || got.Percent != tt.want {
			t.Errorf("parseProgress(%q) = %d, %v; want %d, %v", tt.line, got.Percent, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultTool(t *testing.T) {
	if got := defaultTool(nil, "mkvmerge"); len(got) != 1 || got[0] != "mkvmerge" {
		t.Fatalf("defaultTool(nil) = %q", got)
	}
	if got := defaultTool([]string{" "}, "mkvextract"); got[0] != "mkvextract" {
		t.Fatalf("defaultTool(blank) = %q", got)
	}
	in := []string{"/opt/mkvmerge"}
	got := defaultTool(in, "mkvmerge")
	got[0] = "changed"
	if in[0] != "/opt/mkvmerge" {
		t.Fatal("defaultTool should copy its input")
	}
}
