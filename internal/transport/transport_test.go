package transport

import (
	"testing"

	"github.com/cbegin/acidcore-go/internal/drumengine"
	"github.com/cbegin/acidcore-go/internal/scene"
	"github.com/cbegin/acidcore-go/internal/voice"
)

const testSampleRate = 44100.0

func newTestRig() (*scene.Scene, *Clock, *voice.Voice, *voice.Voice, drumengine.Engine) {
	scn := scene.NewScene(64)
	scn.BPM = 120
	clock := NewClock(scn, testSampleRate)
	va := voice.New(testSampleRate)
	vb := voice.New(testSampleRate)
	drums := drumengine.New(drumengine.KindTR808, testSampleRate)
	return scn, clock, va, vb, drums
}

func runSamples(c *Clock, va, vb *voice.Voice, drums drumengine.Engine, n int) {
	for i := 0; i < n; i++ {
		c.Advance(va, vb, drums)
	}
}

func TestRestThenNoteStartsVoiceOnlyOnHit(t *testing.T) {
	scn, clock, va, vb, drums := newTestRig()
	pat := scn.SynthBank(0, scn.SynthBankIndex[0]).Patterns[scn.SynthPatternIndex[0]]
	pat.Steps[0].Note = -1
	pat.Steps[1].Note = 48

	clock.Start()
	runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	if clock.StepIndex() != 0 {
		t.Fatalf("expected step 0, got %d", clock.StepIndex())
	}
	if va.Active() {
		t.Fatal("expected voice A silent on a rest step")
	}

	runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	if clock.StepIndex() != 1 {
		t.Fatalf("expected step 1, got %d", clock.StepIndex())
	}
	if !va.Active() {
		t.Fatal("expected voice A active after a note step")
	}
}

func TestStepIndexWrapsAtSixteenSteps(t *testing.T) {
	_, clock, va, vb, drums := newTestRig()
	clock.Start()
	for i := 0; i < Steps+1; i++ {
		runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	}
	if clock.StepIndex() != 0 {
		t.Fatalf("expected wrap back to step 0 after %d steps, got %d", Steps+1, clock.StepIndex())
	}
}

func TestStopReleasesVoicesAndResetsDrums(t *testing.T) {
	scn, clock, va, vb, drums := newTestRig()
	pat := scn.SynthBank(0, scn.SynthBankIndex[0]).Patterns[scn.SynthPatternIndex[0]]
	pat.Steps[0].Note = 48
	drumSet := scn.DrumBanks[scn.DrumBankIndex].Patterns[scn.DrumPatternIndex]
	drumSet.Voices[drumengine.Kick].Steps[0].Hit = true

	clock.Start()
	runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	if !va.Active() {
		t.Fatal("expected voice A active before stop")
	}

	clock.Stop(va, vb, drums)
	if clock.Playing() {
		t.Fatal("expected clock stopped")
	}
	fresh := drumengine.New(drumengine.KindTR808, testSampleRate)
	for i := 0; i < 100; i++ {
		for v := drumengine.VoiceType(0); v < drumengine.VoiceCount; v++ {
			if got, want := drums.Process(v), fresh.Process(v); got != want {
				t.Fatalf("expected drums reset after stop: voice %v sample %d got %v, fresh engine %v", v, i, got, want)
			}
		}
	}
	va.Release()
	for i := 0; i < 44100; i++ {
		va.Process()
	}
	if va.Active() {
		t.Fatal("expected voice A silent well after release")
	}
}

func TestSongModeAdvancesPlayheadAtBarBoundary(t *testing.T) {
	scn, clock, va, vb, drums := newTestRig()
	scn.SongMode = true
	song := scn.ActiveSong()
	song.SetPattern(0, scene.TrackDrums, scene.EncodePatternID(0, 0, 0))
	song.SetPattern(1, scene.TrackDrums, scene.EncodePatternID(0, 0, 1))
	scn.SongPosition = 0

	clock.Start()
	for i := 0; i < Steps; i++ {
		runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	}
	if scn.SongPosition != 0 {
		t.Fatalf("expected still at song position 0 mid-bar, got %d", scn.SongPosition)
	}
	runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	if scn.SongPosition != 1 {
		t.Fatalf("expected song position to advance to 1 at the bar boundary, got %d", scn.SongPosition)
	}
	if scn.DrumPatternIndex != 1 {
		t.Fatalf("expected drum pattern index to follow song position, got %d", scn.DrumPatternIndex)
	}
}

func TestLoopModeClampsPlayheadToLoopRange(t *testing.T) {
	scn, clock, va, vb, drums := newTestRig()
	scn.SongMode = true
	scn.LoopMode = true
	scn.LoopStart = 1
	scn.LoopEnd = 2
	song := scn.ActiveSong()
	for i := 0; i < 4; i++ {
		song.SetPattern(i, scene.TrackDrums, scene.EncodePatternID(0, 0, 0))
	}
	scn.SongPosition = 2

	clock.Start()
	for bar := 0; bar < 3; bar++ {
		for i := 0; i < Steps; i++ {
			runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
		}
	}
	if scn.SongPosition < scn.LoopStart || scn.SongPosition > scn.LoopEnd {
		t.Fatalf("expected song position to stay within [%d,%d], got %d", scn.LoopStart, scn.LoopEnd, scn.SongPosition)
	}
}

func TestMutedSynthTrackNeverStartsNote(t *testing.T) {
	scn, clock, va, vb, drums := newTestRig()
	pat := scn.SynthBank(0, scn.SynthBankIndex[0]).Patterns[scn.SynthPatternIndex[0]]
	for i := range pat.Steps {
		pat.Steps[i].Note = 48
	}
	scn.MuteSynth[0] = true

	clock.Start()
	for i := 0; i < Steps; i++ {
		runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
		if va.Active() {
			t.Fatal("expected muted synth track to never trigger a note")
		}
	}
}

func TestAutomationLaneSweepsCutoffAcrossPattern(t *testing.T) {
	scn, clock, va, vb, drums := newTestRig()
	pat := scn.SynthBank(0, scn.SynthBankIndex[0]).Patterns[scn.SynthPatternIndex[0]]
	lane := pat.Automation[scene.SynthCutoff]
	lane.AppendNode(0, 0)
	lane.AppendNode(15, 255)

	clock.Start()
	for i := 0; i < Steps; i++ {
		runSamples(clock, va, vb, drums, int(clock.samplesPerStep)+1)
	}
	if scn.SynthParams[0].Cutoff <= synthParamRanges[scene.SynthCutoff].min {
		t.Fatalf("expected cutoff to have swept upward, got %v", scn.SynthParams[0].Cutoff)
	}
}
