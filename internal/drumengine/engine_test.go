package drumengine

import "testing"

func TestKindByName(t *testing.T) {
	for _, name := range Names {
		if _, ok := KindByName(name); !ok {
			t.Fatalf("expected %q to resolve", name)
		}
	}
	if _, ok := KindByName("nope"); ok {
		t.Fatal("expected unknown name to fail")
	}
}

// Invariant 7: after any drum-engine swap, triggering any voice within
// the same callback does not crash and produces audio within the
// following process calls.
func TestEngineSwapThenTriggerDoesNotPanic(t *testing.T) {
	for _, kind := range []Kind{KindTR808, KindTR909, KindTR606} {
		eng := New(kind, 22050)
		for v := VoiceType(0); v < VoiceCount; v++ {
			eng.Trigger(v, v%2 == 0, 100)
		}
		heard := false
		for i := 0; i < 2000; i++ {
			for v := VoiceType(0); v < VoiceCount; v++ {
				out := eng.Process(v)
				if out != out {
					t.Fatalf("kind %v voice %v produced NaN at sample %d", kind, v, i)
				}
				if out != 0 {
					heard = true
				}
			}
		}
		if !heard {
			t.Fatalf("kind %v produced no audio after every voice was triggered", kind)
		}
	}
}

func TestOpenHatChokedByClosedHat(t *testing.T) {
	eng := New(KindTR808, 22050)
	eng.Trigger(OpenHat, false, 100)
	for i := 0; i < 50; i++ {
		eng.Process(OpenHat)
	}
	before := eng.(*tr808).openHatEnvAmp
	eng.Trigger(ClosedHat, false, 100)
	after := eng.(*tr808).openHatEnvAmp
	if after >= before {
		t.Fatalf("expected closed-hat trigger to choke open-hat envelope: before=%v after=%v", before, after)
	}
}

func TestLoFiAmountChangesOutput(t *testing.T) {
	eng := New(KindTR808, 22050)
	eng.SetLoFiMode(true)
	eng.SetLoFiAmount(1.0)
	eng.Trigger(Kick, true, 127)
	dry := New(KindTR808, 22050)
	dry.Trigger(Kick, true, 127)
	differs := false
	for i := 0; i < 2000; i++ {
		out := eng.Process(Kick)
		if out != out {
			t.Fatalf("NaN at sample %d with lofi engaged", i)
		}
		if out != dry.Process(Kick) {
			differs = true
		}
	}
	if !differs {
		t.Fatal("expected the lofi stage to change the kick output")
	}
}
