package tempodelay

import "testing"

// Invariant 4: after any setBpm(bpm), delay.delaySamples in
// [1, maxDelaySamples - 1].
func TestSetBpmClampsDelaySamples(t *testing.T) {
	d := New(22050, 2.0)
	max := len(d.buffer) - 1
	for _, bpm := range []float64{1, 40, 120, 200, 5000} {
		d.SetBpm(bpm)
		if d.DelaySamples() < 1 || d.DelaySamples() > max {
			t.Fatalf("bpm=%v: delaySamples=%v out of [1,%v]", bpm, d.DelaySamples(), max)
		}
	}
}

func TestDisabledBypassesUnchanged(t *testing.T) {
	d := New(22050, 1.0)
	d.SetEnabled(false)
	if out := d.Process(0.42); out != 0.42 {
		t.Fatalf("expected bypass, got %v", out)
	}
}

func TestProcessAddsFeedbackAndMix(t *testing.T) {
	d := New(22050, 1.0)
	d.SetBeats(0.125)
	d.SetBpm(120)
	d.SetEnabled(true)
	d.SetMix(1.0)
	d.SetFeedback(0.5)
	for i := 0; i < d.DelaySamples(); i++ {
		d.Process(0)
	}
	out := d.Process(1.0)
	if out != 1.0 {
		t.Fatalf("expected dry+0 delayed at first sample, got %v", out)
	}
	for i := 0; i < d.DelaySamples()-1; i++ {
		d.Process(0)
	}
	if out := d.Process(0); out != 1.0 {
		t.Fatalf("expected the impulse back at full mix one delay later, got %v", out)
	}
	for i := 0; i < d.DelaySamples()-1; i++ {
		d.Process(0)
	}
	if out := d.Process(0); out != 0.5 {
		t.Fatalf("expected the fed-back echo at half level two delays later, got %v", out)
	}
}
