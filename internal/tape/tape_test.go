package tape

import "testing"

func TestTapeFXProcessStaysFinite(t *testing.T) {
	fx := NewTapeFX(22050)
	fx.ApplyMacro(Macro{Wow: 0.6, Age: 0.4, Sat: 0.5, Tone: 0.5, Crush: 0.3, Space: 0.2, Movement: 0.3})
	for i := 0; i < 5000; i++ {
		in := 0.0
		if i%3 == 0 {
			in = 0.7
		}
		out := fx.Process(in)
		if out != out || out > 10 || out < -10 {
			t.Fatalf("unstable output at sample %d: %v", i, out)
		}
	}
}

func TestLooperRecordsThenPlaysBack(t *testing.T) {
	l := NewLooper(1000)
	l.SetMode(Rec)
	for i := 0; i < 100; i++ {
		var out float64
		l.Process(0.5, &out)
	}
	l.SetMode(Play)
	if !l.HasLoop() {
		t.Fatal("expected loop to be defined after recording")
	}
	if l.LoopLengthSamples() != 100 {
		t.Fatalf("expected loop length 100, got %d", l.LoopLengthSamples())
	}
	var out float64
	l.Process(0, &out)
	if out < 0.4 || out > 0.6 {
		t.Fatalf("expected playback near recorded value, got %v", out)
	}
}

func TestEjectResetsCleanly(t *testing.T) {
	l := NewLooper(1000)
	l.SetMode(Rec)
	for i := 0; i < 10; i++ {
		var out float64
		l.Process(0.5, &out)
	}
	l.Eject()
	if l.HasLoop() || l.Mode() != Stop {
		t.Fatal("expected clean state after eject")
	}
}
