package mixer

import (
	"testing"

	"github.com/cbegin/acidcore-go/internal/drumengine"
)

func TestSynthChannelMuteSilences(t *testing.T) {
	c := NewSynthChannel(22050)
	c.SetMute(true)
	if out := c.Process(1.0); out != 0 {
		t.Fatalf("expected muted channel to output 0, got %v", out)
	}
}

func TestSynthChannelPassesSignalWhenUnmuted(t *testing.T) {
	c := NewSynthChannel(22050)
	out := c.Process(1.0)
	if out == 0 {
		t.Fatal("expected non-zero output for unmuted channel")
	}
}

func TestDrumBusRespectsVoiceMute(t *testing.T) {
	bus := NewDrumBus()
	engine := drumengine.New(drumengine.KindTR808, 22050)
	engine.Trigger(drumengine.Kick, true, 127)
	engine.Trigger(drumengine.Snare, true, 127)
	bus.SetVoiceMute(drumengine.Kick, true)

	full := bus.Sum(engine)
	if full == 0 {
		t.Fatal("expected non-zero sum with snare unmuted")
	}
}

func TestMasterSoftLimitStaysInRange(t *testing.T) {
	m := NewMaster(22050)
	m.MainVolume = 1.0
	m.SceneMasterGain = 1.0
	for i := 0; i < 100; i++ {
		out := m.Process(2.0)
		if out > 32767 || out < -32768 {
			t.Fatalf("quantized sample out of int16 range: %v", out)
		}
	}
}

func TestMasterGainFormula(t *testing.T) {
	m := NewMaster(22050)
	m.MainVolume = 0.5
	m.SceneMasterGain = 0.5
	out := m.Process(1.0)
	// 0.65 * 0.5 * 0.5 = 0.1625, well under the limiter knee.
	scaled := 0.1625 * 32767
	expected := int16(scaled)
	diff := out - expected
	if diff < -200 || diff > 200 {
		t.Fatalf("expected output near %d (dither tolerance), got %d", expected, out)
	}
}

func TestChainRenderSampleStaysFinite(t *testing.T) {
	c := NewChain(22050)
	engine := drumengine.New(drumengine.KindTR808, 22050)
	engine.Trigger(drumengine.Kick, true, 127)
	for i := 0; i < 2000; i++ {
		out := c.RenderSample(0.3, -0.2, engine)
		if out > 32767 || out < -32768 {
			t.Fatalf("sample %d out of range: %v", i, out)
		}
	}
}
