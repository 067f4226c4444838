package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	for _, size := range []int{0, -5} {
		if s := NewProgressSampler(size); s.bucketSize != 10 || s.lastBucket != -1 {
			t.Fatalf("NewProgressSampler(%d) = %+v", size, s)
		}
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "muxing") {
		t.Error("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(10)
	steps := []struct {
		percent int
		want    bool
	}{
		{0, true},
		{4, false},
		{10, true},
		{19, false},
		{35, true},
		{100, true},
		{100, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "muxing"); got != step.want {
			t.Fatalf("ShouldLog(%d) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerPhaseChangeResetsBucket(t *testing.T) {
	s := NewProgressSampler(25)
	s.ShouldLog(80, "muxing")
	if !s.ShouldLog(0, "  verifying ") {
		t.Fatal("phase change should log")
	}
	if s.lastPhase != "verifying" {
		t.Fatalf("lastPhase = %q", s.lastPhase)
	}
	if !s.ShouldLog(25, "verifying") {
		t.Fatal("bucket should restart after a phase change")
	}
}

func TestProgressSamplerUnknownPercent(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(-1, "muxing") {
		t.Fatal("first phase should log")
	}
	if s.ShouldLog(-1, "muxing") {
		t.Fatal("unknown percent should not log again")
	}
	s.Reset()
	if !s.ShouldLog(-1, "muxing") {
		t.Fatal("reset sampler should log the phase again")
	}
}
