package formant

import "testing"

func TestSpeakProducesActiveVoicedOutput(t *testing.T) {
	s := New(22050)
	s.Speak("hi")
	if !s.IsSpeaking() {
		t.Fatal("expected speaking after Speak")
	}
	sawNonZero := false
	for i := 0; i < 20000 && s.IsSpeaking(); i++ {
		out := s.Process()
		if out != out {
			t.Fatalf("NaN output at sample %d", i)
		}
		if out != 0 {
			sawNonZero = true
		}
	}
	if !sawNonZero {
		t.Fatal("expected some non-zero output while speaking")
	}
}

func TestSpeakEventuallyStops(t *testing.T) {
	s := New(22050)
	s.Speak("a")
	for i := 0; i < 50000 && s.IsSpeaking(); i++ {
		s.Process()
	}
	if s.IsSpeaking() {
		t.Fatal("expected speech to finish within 50000 samples")
	}
}

func TestStopHaltsImmediately(t *testing.T) {
	s := New(22050)
	s.Speak("hello there")
	s.Process()
	s.Stop()
	if s.IsSpeaking() || s.IsActive() {
		t.Fatal("expected Stop to clear speaking and active flags")
	}
}

func TestCustomPhraseTruncatesAndRoundTrips(t *testing.T) {
	s := New(22050)
	long := "this phrase is definitely longer than thirty two characters for sure"
	s.SetCustomPhrase(0, long)
	got := s.CustomPhrase(0)
	if len(got) > maxPhraseLength {
		t.Fatalf("expected truncation to %d chars, got %d", maxPhraseLength, len(got))
	}
	if got != long[:maxPhraseLength] {
		t.Fatalf("expected prefix match, got %q", got)
	}
}

func TestCustomPhraseOutOfRangeIsNoop(t *testing.T) {
	s := New(22050)
	s.SetCustomPhrase(-1, "x")
	s.SetCustomPhrase(numCustomPhrases, "x")
	if s.CustomPhrase(-1) != "" || s.CustomPhrase(numCustomPhrases) != "" {
		t.Fatal("expected empty string for out-of-range phrase index")
	}
}

func TestVocalMixerDucksWhileSpeaking(t *testing.T) {
	m := NewVocalMixer()
	var last float64
	for i := 0; i < 30; i++ {
		last = m.Mix(1.0, 0, true)
	}
	if m.DuckAmount() != 1.0 {
		t.Fatalf("expected duck amount saturated to 1, got %v", m.DuckAmount())
	}
	if last != 0 {
		t.Fatalf("expected fully-ducked music to be silent, got %v", last)
	}
}

func TestVocalMixerRecoversWhenSilent(t *testing.T) {
	m := NewVocalMixer()
	for i := 0; i < 30; i++ {
		m.Mix(1.0, 0, true)
	}
	for i := 0; i < 60; i++ {
		m.Mix(1.0, 0, false)
	}
	if m.DuckAmount() != 0 {
		t.Fatalf("expected duck amount to decay to 0, got %v", m.DuckAmount())
	}
}

func TestCompressorStaysBoundedAndFinite(t *testing.T) {
	c := NewCompressor(true)
	for i := 0; i < 5000; i++ {
		in := 0.9
		if i%2 == 0 {
			in = -0.9
		}
		out := c.Process(in)
		if out != out {
			t.Fatalf("NaN output at sample %d", i)
		}
		if out > 3 || out < -3 {
			t.Fatalf("unbounded output at sample %d: %v", i, out)
		}
	}
}

func TestCompressorQuietSignalPassesThroughLinearly(t *testing.T) {
	c := NewCompressor(false)
	var out float64
	for i := 0; i < 2000; i++ {
		out = c.Process(0.01)
	}
	if out == 0 {
		t.Fatal("expected non-zero output for a quiet steady input")
	}
}
