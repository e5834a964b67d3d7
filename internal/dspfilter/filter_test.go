package dspfilter

import "testing"

func TestNewProducesStableOutputForAllKinds(t *testing.T) {
	for kind := Kind(0); kind < KindCount; kind++ {
		f := New(kind, 22050)
		var out float64
		for i := 0; i < 1000; i++ {
			in := 0.0
			if i%2 == 0 {
				in = 1.0
			} else {
				in = -1.0
			}
			out = f.Process(in, 1000, 0.5)
			if out != out { // NaN check
				t.Fatalf("kind %v produced NaN at sample %d", kind, i)
			}
		}
		_ = out
	}
}

func TestResetClearsState(t *testing.T) {
	f := New(KindSVFLowpass, 22050)
	for i := 0; i < 100; i++ {
		f.Process(1.0, 1000, 0.8)
	}
	f.Reset()
	if out := f.Process(0, 1000, 0.8); out != 0 {
		// first sample after reset with zero input should be ~0
		if out > 1e-9 || out < -1e-9 {
			t.Fatalf("expected near-zero output after reset, got %v", out)
		}
	}
}
