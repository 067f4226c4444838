package mkvtoolnix

import (
	"context"
	"os/exec"
	"slices"
	"testing"
)

func TestScanOutputLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"newlines", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"carriage returns", "Progress: 10%\rProgress: 50%\rProgress: 100%\r\n", []string{"Progress: 10%", "Progress: 50%", "Progress: 100%"}},
		{"no trailing terminator", "a\rb", []string{"a", "b"}},
		{"trailing carriage return", "a\r", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			data := []byte(tt.in)
			for len(data) > 0 {
				advance, token, err := scanOutputLines(data, true)
				if err != nil {
					t.Fatalf("scanOutputLines: %v", err)
				}
				if advance == 0 {
					t.Fatalf("no progress on %q", data)
				}
				got = append(got, string(token))
				data = data[advance:]
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("lines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanOutputLinesWaitsForLineFeed(t *testing.T) {
	advance, token, err := scanOutputLines([]byte("a\r"), false)
	if err != nil || advance != 0 || token != nil {
		t.Fatalf("expected request for more data, got %d %q %v", advance, token, err)
	}
}

func TestCommandExecutorSplitsProgressUpdates(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	script := `printf 'Progress: 10%%\rProgress: 50%%\rProgress: 100%%\r\n'; printf 'Warning: odd\n' >&2`

	var stdout, stderr []string
	err = commandExecutor{}.Run(context.Background(), sh, []string{"-c", script}, func(stream Stream, line string) {
		if stream == Stdout {
			stdout = append(stdout, line)
		} else {
			stderr = append(stderr, line)
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"Progress: 10%", "Progress: 50%", "Progress: 100%"}
	if !slices.Equal(stdout, want) {
		t.Fatalf("stdout lines = %q, want %q", stdout, want)
	}
	if !slices.Equal(stderr, []string{"Warning: odd"}) {
		t.Fatalf("stderr lines = %q", stderr)
	}

	var percents []int
	for _, line := range stdout {
		if p, ok := parseProgress(line); ok {
			percents = append(percents, p.Percent)
		}
	}
	if !slices.Equal(percents, []int{10, 50, 100}) {
		t.Fatalf("progress = %v", percents)
	}
}
