// Package scene implements the pattern/scene data model: banks of
// synth and drum patterns, song positions, and scene-wide state, per
// the groovebox data model.
package scene

import "github.com/cbegin/acidcore-go/internal/automation"

const (
	stepsPerPattern  = 16
	voicesPerDrumSet = 9 // kick, snare, closedHat, openHat, midTom, highTom, rim, clap, cymbal
	patternsPerBank  = 8
)

// SynthParam names the automation-addressable parameters of a synth
// voice, mirrored from the TB303-derived parameter id set.
type SynthParam int

const (
	SynthCutoff SynthParam = iota
	SynthResonance
	SynthEnvAmount
	SynthEnvDecay
	SynthOscillator
	SynthFilterType
	SynthMainVolume
	SynthParamCount
)

// DrumParam names the automation-addressable parameters of a drum
// engine. The reference roster carries only a master volume lane.
type DrumParam int

const (
	DrumMainVolume DrumParam = iota
	DrumParamCount
)

// SynthStep is one sixteenth-note cell of a synth pattern.
type SynthStep struct {
	Note        int8 // -1 for rest, else [24,71]
	Accent      bool
	Slide       bool
	Velocity    uint8 // [1,127]
	Timing      int8  // ticks offset
	Ghost       bool
	Fx          uint8
	FxParam     uint8
	Probability uint8
}

// IsRest reports whether the step denotes silence.
func (s SynthStep) IsRest() bool { return s.Note < 0 }

// SynthPattern is 16 steps plus one automation lane per SynthParam.
type SynthPattern struct {
	Steps      [stepsPerPattern]SynthStep
	Automation [SynthParamCount]*automation.Lane
}

// NewSynthPattern allocates a pattern with its lanes bound to pool.
func NewSynthPattern(pool *automation.Pool) *SynthPattern {
	p := &SynthPattern{}
	for i := range p.Automation {
		p.Automation[i] = automation.NewLane(pool)
		p.Steps[i%stepsPerPattern].Note = -1
	}
	for i := range p.Steps {
		p.Steps[i].Note = -1
		p.Steps[i].Velocity = 100
		p.Steps[i].Probability = 255
	}
	return p
}

// DrumStep is one sixteenth-note cell of a single drum voice row.
type DrumStep struct {
	Hit         bool
	Accent      bool
	Velocity    uint8
	Timing      int8
	Fx          uint8
	FxParam     uint8
	Probability uint8
}

// DrumPattern is the 16-step hit row for one drum voice.
type DrumPattern struct {
	Steps [stepsPerPattern]DrumStep
}

// DrumPatternSet is the 9-voice pattern for one drum-pattern slot:
// per-voice hit rows, a shared pattern-wide accent row, and one
// automation lane per DrumParam.
type DrumPatternSet struct {
	Voices     [voicesPerDrumSet]DrumPattern
	Accents    [stepsPerPattern]bool
	Automation [DrumParamCount]*automation.Lane
}

// NewDrumPatternSet allocates a pattern set with its lanes bound to pool.
func NewDrumPatternSet(pool *automation.Pool) *DrumPatternSet {
	d := &DrumPatternSet{}
	for i := range d.Automation {
		d.Automation[i] = automation.NewLane(pool)
	}
	for v := range d.Voices {
		for s := range d.Voices[v].Steps {
			d.Voices[v].Steps[s].Velocity = 100
			d.Voices[v].Steps[s].Probability = 255
		}
	}
	return d
}

// Bank is a set of 8 patterns of one type (SynthPattern or
// DrumPatternSet, via generics).
type Bank[T any] struct {
	Patterns [patternsPerBank]T
}
