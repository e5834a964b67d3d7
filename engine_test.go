package acidcore

import (
	"testing"

	"github.com/cbegin/acidcore-go/internal/scene"
)

func TestNewEngineRejectsNonPositiveSampleRate(t *testing.T) {
	if _, err := NewEngine(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestStartStopTogglesIsPlaying(t *testing.T) {
	eng, err := NewEngine(44100)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if eng.IsPlaying() {
		t.Fatal("expected engine stopped initially")
	}
	eng.Start()
	if !eng.IsPlaying() {
		t.Fatal("expected engine playing after Start")
	}
	eng.Stop()
	if eng.IsPlaying() {
		t.Fatal("expected engine stopped after Stop")
	}
}

func TestGenerateAudioBufferAdvancesStepsAndFillsBuffer(t *testing.T) {
	eng, err := NewEngine(8000)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	eng.SetBPM(120)
	eng.Start()
	dst := make([]int16, 4096)
	eng.GenerateAudioBuffer(dst)
	if eng.CurrentStep() < 0 {
		t.Fatal("expected the transport to have advanced past the first step")
	}
}

func TestSelectionSettersClamp(t *testing.T) {
	eng, _ := NewEngine(44100)
	eng.SetSynthBank(0, 99)
	if eng.SynthBank(0) != 1 {
		t.Fatalf("expected bank clamp to 1, got %d", eng.SynthBank(0))
	}
	eng.SetDrumBank(-5)
	if eng.DrumBank() != 0 {
		t.Fatalf("expected drum bank clamp to 0, got %d", eng.DrumBank())
	}
	eng.SetSynthPatternIndex(0, 999)
	if eng.SynthPatternIndex(0) != 7 {
		t.Fatalf("expected pattern index clamp to 7, got %d", eng.SynthPatternIndex(0))
	}
}

func TestStepEditRoundTrips(t *testing.T) {
	eng, _ := NewEngine(44100)
	eng.ToggleDrumHit(0, 3)
	eng.SetSynthStepAccent(0, 3, true)
	eng.SetSynthStepSlide(0, 3, true)
	eng.AdjustSynthNote(0, 3, 5)

	ps := eng.activeDrumPatternSet()
	if !ps.Voices[0].Steps[3].Hit {
		t.Fatal("expected drum hit toggled on")
	}
	pat := eng.activeSynthPattern(0)
	if !pat.Steps[3].Accent || !pat.Steps[3].Slide {
		t.Fatal("expected accent and slide set")
	}

	eng.ClearSynthStep(0, 3)
	if !pat.Steps[3].IsRest() {
		t.Fatal("expected step cleared to rest")
	}
}

func TestAutomationCopyRoundTrips(t *testing.T) {
	eng, _ := NewEngine(44100)
	src := eng.SynthLane(0, scene.SynthCutoff)
	src.AppendNode(0, 10)
	src.AppendNode(15, 200)

	eng.CopySynthAutomation(0, 0, 0, 0, 1, scene.SynthCutoff)
	bank := eng.scene.SynthABanks[0]
	copied := bank.Patterns[1].Automation[scene.SynthCutoff]
	if copied.Count() != 2 {
		t.Fatalf("expected 2 copied nodes, got %d", copied.Count())
	}
}

func TestSongEditRoundTrips(t *testing.T) {
	eng, _ := NewEngine(44100)
	eng.SetSongLength(4)
	eng.SetSongPattern(2, scene.TrackDrums, 5)
	if got := eng.SongPattern(2, scene.TrackDrums); got != 5 {
		t.Fatalf("expected pattern id 5, got %d", got)
	}
	eng.ClearSongPattern(2, scene.TrackDrums)
	if got := eng.SongPattern(2, scene.TrackDrums); got != -1 {
		t.Fatalf("expected cleared position to rest, got %d", got)
	}

	eng.SetLoopRange(1, 3)
	eng.SetLoopMode(true)
	start, end := eng.LoopRange()
	if start != 1 || end != 3 || !eng.LoopMode() {
		t.Fatalf("unexpected loop state: %d %d %v", start, end, eng.LoopMode())
	}
}

func TestDrumEngineSwap(t *testing.T) {
	eng, _ := NewEngine(44100)
	if !eng.SetDrumEngine("909") {
		t.Fatal("expected 909 to be a valid engine name")
	}
	if eng.DrumEngineName() != "909" {
		t.Fatalf("expected drum engine name 909, got %q", eng.DrumEngineName())
	}
	if eng.SetDrumEngine("nope") {
		t.Fatal("expected unknown engine name to fail")
	}

	eng.ToggleDrumHit(0, 0)
	eng.Start()
	dst := make([]int16, 16)
	eng.GenerateAudioBuffer(dst)
}

func TestSceneSaveLoadRoundTrips(t *testing.T) {
	eng, _ := NewEngine(44100)
	eng.SetBPM(140)
	eng.SetDrumEngine("606")
	if err := eng.SaveScene("test-scene"); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}

	names := eng.SceneNames()
	if len(names) != 1 || names[0] != "test-scene" {
		t.Fatalf("expected one scene name, got %v", names)
	}

	eng.SetBPM(90)
	if err := eng.LoadScene("test-scene"); err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if eng.BPM() != 140 {
		t.Fatalf("expected reloaded bpm 140, got %v", eng.BPM())
	}
	if eng.DrumEngineName() != "606" {
		t.Fatalf("expected reloaded drum engine 606, got %q", eng.DrumEngineName())
	}
}

func TestWaveformSnapshotMatchesBufferSize(t *testing.T) {
	eng, _ := NewEngine(44100)
	eng.Start()
	dst := make([]int16, 2048)
	eng.GenerateAudioBuffer(dst)

	snap := make([]int16, 512)
	eng.CopyWaveform(snap)
}
