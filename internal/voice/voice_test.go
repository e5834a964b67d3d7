package voice

import "testing"

func TestStartNoteWithoutSlideSnapsFreq(t *testing.T) {
	v := New(22050)
	v.StartNote(220, false, false, 100)
	if v.Freq() != 220 {
		t.Fatalf("expected immediate freq snap, got %v", v.Freq())
	}
}

// Invariant 3 / Scenario B: with slide, |freq - target| is
// monotonically non-increasing per sample until equal.
func TestSlideConvergesMonotonically(t *testing.T) {
	v := New(22050)
	v.StartNote(110, false, false, 100) // establish starting freq
	v.StartNote(440, false, true, 100)  // slide toward new target

	prevDist := absf(v.Freq() - 440)
	for i := 0; i < 5000; i++ {
		v.Process()
		dist := absf(v.Freq() - 440)
		if dist > prevDist+1e-9 {
			t.Fatalf("distance to target increased at sample %d: %v -> %v", i, prevDist, dist)
		}
		prevDist = dist
	}
	if absf(v.Freq()-440) > 1.0 {
		t.Fatalf("expected slide to converge near target, got %v", v.Freq())
	}
}

func TestReleaseDecaysToSilence(t *testing.T) {
	v := New(22050)
	v.StartNote(220, false, false, 100)
	v.Release()
	for i := 0; i < 22050; i++ {
		v.Process()
	}
	if v.Active() {
		t.Fatal("expected voice to become inactive after sustained release")
	}
}

func TestFilterHotSwapDoesNotPanic(t *testing.T) {
	v := New(22050)
	v.StartNote(220, true, false, 127)
	for i := 0; i < 100; i++ {
		v.Process()
	}
	v.SetFilterType(2)
	for i := 0; i < 100; i++ {
		out := v.Process()
		if out != out {
			t.Fatalf("NaN after filter hot-swap at sample %d", i)
		}
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
