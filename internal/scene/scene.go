package scene

import "github.com/cbegin/acidcore-go/internal/automation"

// GrooveboxMode is the scene-wide style flag that gates whether a
// synth voice applies LoFi degradation (Acid mode bypasses it).
type GrooveboxMode int

const (
	ModeAcid GrooveboxMode = iota
	ModeMinimal
)

const (
	numCustomPhrases  = 16
	maxPhraseLength   = 32
	numTrackVolumes   = 10
	numSamplerPads    = 16
	numSongs          = 2
	numDrumVoiceMutes = voicesPerDrumSet
)

// TapeMode is the TapeLooper mode machine state.
type TapeMode int

const (
	TapeStop TapeMode = iota
	TapeRec
	TapeDub
	TapePlay
)

// TapeState is the persisted tape bus configuration: macro dials plus
// looper mode/speed.
type TapeState struct {
	Mode      TapeMode
	Preset    int
	Speed     uint8 // 0=0.5x, 1=1.0x, 2=2.0x
	FXEnabled bool
	Wow       float64
	Age       float64
	Sat       float64
	Tone      float64
	Crush     float64
	Volume    float64
	Space     float64
	Movement  float64
	Groove    float64
}

// DefaultTapeState returns a tape bus with FX enabled and neutral macros.
func DefaultTapeState() TapeState {
	return TapeState{FXEnabled: true, Tone: 0.5, Volume: 1.0}
}

// SynthParamsState mirrors the scene JSON "synthParams" object for one
// synth voice: {cutoff, resonance, envAmount, envDecay, oscType}.
// Cutoff is in Hz, EnvAmount in Hz, EnvDecay in ms, and Resonance in
// [0,1] — the same absolute units voice.Voice.SetParams consumes.
type SynthParamsState struct {
	Cutoff    float64
	Resonance float64
	EnvAmount float64
	EnvDecay  float64
	OscType   int
}

// FeelSettings, GenreSettings, DrumFXSettings, VocalSettings, and
// LEDSettings are scene-level style/UI objects outside the audio core;
// the core parses and dumps their fields at the JSON ingest boundary
// (package sceneio) but otherwise leaves them to the UI layer.
type FeelSettings struct {
	Swing  float64
	Humanize float64
}

type GenreSettings struct {
	Name string
}

type DrumFXSettings struct {
	Enabled bool
}

type VocalSettings struct {
	Pitch      float64
	Speed      float64
	Robotness  float64
	Volume     float64
}

type LEDSettings struct {
	Brightness float64
}

// SamplerPadState is an out-of-scope sampler slot; the core parses and
// dumps it at the JSON boundary but does not play it.
type SamplerPadState struct {
	SampleName string
	Volume     float64
}

// Scene is the full persistent state of the groovebox: drum banks x2,
// synth A/B banks x2 each, two songs + active slot, tape/feel/genre
// settings, and the miscellany enumerated in the scene JSON "state"
// object.
type Scene struct {
	Pool *automation.Pool

	DrumBanks  [2]*Bank[*DrumPatternSet]
	SynthABanks [2]*Bank[*SynthPattern]
	SynthBBanks [2]*Bank[*SynthPattern]

	Songs         [numSongs]*Song
	ActiveSongSlot int

	Tape  TapeState
	Feel  FeelSettings
	Genre GenreSettings
	DrumFX DrumFXSettings
	Vocal VocalSettings
	LED   LEDSettings

	Mode GrooveboxMode

	MasterVolume  float64
	TrackVolumes  [numTrackVolumes]float64
	CustomPhrases [numCustomPhrases]string

	SamplerPads [numSamplerPads]SamplerPadState

	// Selection/transport mirror state, persisted across save/load so a
	// resumed scene restores to where it left off.
	DrumPatternIndex   int
	DrumBankIndex      int
	DrumEngineName     string
	SynthPatternIndex  [2]int
	SynthBankIndex     [2]int
	MuteDrums          [numDrumVoiceMutes]bool
	MuteSynth          [2]bool
	SynthDistortion    [2]bool
	SynthDelay         [2]bool
	SynthParams        [2]SynthParamsState
	BPM                float64
	SongMode           bool
	SongPosition       int
	LoopMode           bool
	LoopStart          int
	LoopEnd            int
}

// NewScene builds a cleared scene: empty banks, one-bar silent songs,
// Acid mode, 120 BPM, all mutes off.
func NewScene(poolCapacity int) *Scene {
	s := &Scene{Pool: automation.NewPool(poolCapacity)}

	for i := range s.DrumBanks {
		s.DrumBanks[i] = &Bank[*DrumPatternSet]{}
		for p := range s.DrumBanks[i].Patterns {
			s.DrumBanks[i].Patterns[p] = NewDrumPatternSet(s.Pool)
		}
	}
	for i := range s.SynthABanks {
		s.SynthABanks[i] = &Bank[*SynthPattern]{}
		for p := range s.SynthABanks[i].Patterns {
			s.SynthABanks[i].Patterns[p] = NewSynthPattern(s.Pool)
		}
	}
	for i := range s.SynthBBanks {
		s.SynthBBanks[i] = &Bank[*SynthPattern]{}
		for p := range s.SynthBBanks[i].Patterns {
			s.SynthBBanks[i].Patterns[p] = NewSynthPattern(s.Pool)
		}
	}
	for i := range s.Songs {
		s.Songs[i] = NewSong()
	}

	s.Tape = DefaultTapeState()
	s.MasterVolume = 1.0
	for i := range s.TrackVolumes {
		s.TrackVolumes[i] = 1.0
	}
	s.DrumEngineName = "808"
	s.BPM = 120
	s.LoopEnd = 0
	s.SynthParams = [2]SynthParamsState{
		{Cutoff: 400, Resonance: 0.3, EnvAmount: 2000, EnvDecay: 300, OscType: 0},
		{Cutoff: 400, Resonance: 0.3, EnvAmount: 2000, EnvDecay: 300, OscType: 0},
	}
	return s
}

// ActiveSong returns the currently selected song.
func (s *Scene) ActiveSong() *Song { return s.Songs[s.ActiveSongSlot] }

// SynthBank returns the active bank for a synth track (0=A, 1=B).
func (s *Scene) SynthBank(track int, bankIndex int) *Bank[*SynthPattern] {
	if track == 0 {
		return s.SynthABanks[bankIndex]
	}
	return s.SynthBBanks[bankIndex]
}
