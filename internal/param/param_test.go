package param

import "testing"

func TestNewClampsInitial(t *testing.T) {
	p := New("cutoff", 50, 8000, 1, 100000)
	if p.Value() != 8000 {
		t.Fatalf("expected clamp to max, got %v", p.Value())
	}
}

func TestSetValueSteps(t *testing.T) {
	p := New("decay", 0, 10, 2, 0)
	p.SetValue(5)
	if p.Value() != 6 && p.Value() != 4 {
		t.Fatalf("expected rounding to step grid, got %v", p.Value())
	}
}

func TestAddStepsIdempotentAtBounds(t *testing.T) {
	p := New("res", 0, 1, 0.1, 1)
	p.AddSteps(5)
	if p.Value() != 1 {
		t.Fatalf("expected clamp at max, got %v", p.Value())
	}
	p.AddSteps(-50)
	if p.Value() != 0 {
		t.Fatalf("expected clamp at min, got %v", p.Value())
	}
}

func TestOptionsShadowNumeric(t *testing.T) {
	labels := []string{"lp1", "acid", "moog"}
	p := NewOptions("filterType", labels, 5)
	if p.OptionIndex() != 2 {
		t.Fatalf("expected clamp to last label index, got %v", p.OptionIndex())
	}
	if p.OptionLabelAt(p.OptionIndex()) != "moog" {
		t.Fatalf("expected moog label, got %v", p.OptionLabelAt(p.OptionIndex()))
	}
}

func TestSetNormalized(t *testing.T) {
	p := New("volume", 0, 200, 0, 0)
	p.SetNormalized(0.5)
	if p.Value() != 100 {
		t.Fatalf("expected 100, got %v", p.Value())
	}
}
