// Package transport implements the step clock and playhead: advancing
// the 16-step sequencer, walking the song position list in song mode,
// and evaluating automation lanes at sample-accurate fractional step
// positions. Grounded on original_source/src/dsp/miniacid_engine.cpp's
// advanceStep/advanceSongPlayhead/applySynthAutomation/applyDrumAutomation,
// reworked into the Go idiom the rest of this module uses: explicit
// struct state, no package-level globals, small exported setters.
package transport

import (
	"math"

	"github.com/cbegin/acidcore-go/internal/automation"
	"github.com/cbegin/acidcore-go/internal/drumengine"
	"github.com/cbegin/acidcore-go/internal/dspfilter"
	"github.com/cbegin/acidcore-go/internal/scene"
	"github.com/cbegin/acidcore-go/internal/voice"
)

// Steps is the fixed sequencer pattern length.
const Steps = 16

// automationStride is the sample countdown between automation
// lane evaluations, matching the reference's kAutomationSampleStride.
const automationStride = 32

// automationValueScale converts a lane's uint8 evaluated value into
// [0,1], matching the reference's kAutomationValueScale (1/255).
const automationValueScale = 1.0 / 255.0

// Clock drives the scene's transport: step index, song playhead, and
// automation evaluation. It owns no audio state itself — it reaches
// into the scene for pattern data and pushes parameter changes onto
// the two synth voices and the drum engine it is given each block.
type Clock struct {
	scene *scene.Scene

	sampleRate     float64
	samplesPerStep float64

	playing         bool
	stepIndex       int // -1 before the first step of a run
	samplesIntoStep float64

	songPlayhead int

	automationCountdown int
}

// NewClock builds a stopped clock bound to scn.
func NewClock(scn *scene.Scene, sampleRate float64) *Clock {
	c := &Clock{scene: scn, sampleRate: sampleRate, stepIndex: -1}
	c.updateSamplesPerStep()
	return c
}

// Playing reports whether the transport is running.
func (c *Clock) Playing() bool { return c.playing }

// StepIndex returns the current step, or -1 if never started.
func (c *Clock) StepIndex() int { return c.stepIndex }

// Progress returns how far into the current step the clock is, in
// [0,1); 0 immediately after a step boundary.
func (c *Clock) Progress() float64 {
	if c.samplesPerStep <= 0 {
		return 0
	}
	return c.samplesIntoStep / c.samplesPerStep
}

// SetBPM updates the scene BPM and recomputes the step length. Valid
// range [40,200] per the scene JSON contract; out-of-range values clamp.
func (c *Clock) SetBPM(bpm float64) {
	if bpm < 40 {
		bpm = 40
	}
	if bpm > 200 {
		bpm = 200
	}
	c.scene.BPM = bpm
	c.updateSamplesPerStep()
}

func (c *Clock) updateSamplesPerStep() {
	bpm := c.scene.BPM
	if bpm <= 0 {
		bpm = 1
	}
	c.samplesPerStep = c.sampleRate * 60.0 / (bpm * 4.0)
}

// Start begins playback from the scene's persisted song position (in
// song mode) or the currently selected patterns (in pattern mode). The
// step counter is primed so the next Advance plays the first step.
func (c *Clock) Start() {
	c.playing = true
	c.stepIndex = -1
	c.automationCountdown = 0
	c.updateSamplesPerStep()
	c.samplesIntoStep = c.samplesPerStep
}

// Stop halts playback, releases both synth voices, and resets the
// drum engine so a restart begins from silence.
func (c *Clock) Stop(voiceA, voiceB *voice.Voice, drums drumengine.Engine) {
	c.playing = false
	voiceA.Release()
	voiceB.Release()
	drums.Reset()
}

// Advance runs the clock forward by one sample, triggering a step
// boundary and automation evaluation as needed. Call once per
// rendered sample while Playing().
func (c *Clock) Advance(voiceA, voiceB *voice.Voice, drums drumengine.Engine) {
	if !c.playing {
		return
	}
	if c.samplesIntoStep >= c.samplesPerStep {
		c.samplesIntoStep = 0
		c.advanceStep(voiceA, voiceB, drums)
	}
	c.samplesIntoStep++

	step := c.stepIndex
	if step < 0 {
		step = 0
	}
	frac := 0.0
	if c.samplesPerStep > 0 {
		frac = c.samplesIntoStep / c.samplesPerStep
	}
	t := float64(step) + frac

	if c.automationCountdown == 0 {
		c.automationCountdown = automationStride - 1
		c.applySynthAutomation(0, voiceA, t)
		c.applySynthAutomation(1, voiceB, t)
	} else {
		c.automationCountdown--
	}
}

// advanceStep implements the reference's six-step advanceStep(): move
// the step index, walk the song playhead on bar boundaries, apply
// drum automation for the new step, then trigger or release each
// voice and drum hit according to the resolved patterns.
func (c *Clock) advanceStep(voiceA, voiceB *voice.Voice, drums drumengine.Engine) {
	prevStep := c.stepIndex
	c.stepIndex = (c.stepIndex + 1) % Steps

	s := c.scene
	if s.SongMode {
		if prevStep < 0 {
			c.songPlayhead = clampSongPosition(s, s.SongPosition)
			s.SongPosition = c.songPlayhead
			c.applySongPositionSelection()
		} else if c.stepIndex == 0 {
			c.advanceSongPlayhead()
		}
	}

	c.applyDrumAutomation(float64(c.stepIndex))

	synthA := c.activeSynthPattern(0)
	synthB := c.activeSynthPattern(1)
	stepA := synthA.Steps[c.stepIndex]
	stepB := synthB.Steps[c.stepIndex]

	songPatternA := c.songPatternIndexForTrack(scene.TrackSynthA)
	songPatternB := c.songPatternIndexForTrack(scene.TrackSynthB)
	songPatternDrums := c.songPatternIndexForTrack(scene.TrackDrums)

	if !s.MuteSynth[0] && songPatternA >= 0 && !stepA.IsRest() {
		voiceA.StartNote(noteToFreq(stepA.Note), stepA.Accent, stepA.Slide, int(stepA.Velocity))
	} else {
		voiceA.Release()
	}
	if !s.MuteSynth[1] && songPatternB >= 0 && !stepB.IsRest() {
		voiceB.StartNote(noteToFreq(stepB.Note), stepB.Accent, stepB.Slide, int(stepB.Velocity))
	} else {
		voiceB.Release()
	}

	drumsActive := songPatternDrums >= 0
	patternSet := c.activeDrumPatternSet()
	accent := patternSet.Accents[c.stepIndex]
	for v := drumengine.VoiceType(0); v < drumengine.VoiceCount; v++ {
		if s.MuteDrums[v] || !drumsActive {
			continue
		}
		if patternSet.Voices[v].Steps[c.stepIndex].Hit {
			drums.Trigger(v, accent, 100)
		}
	}
}

// songPatternIndexForTrack returns the global pattern id the song
// currently selects for track, or -1 when the song rests that track or
// the position lies past the song's end. Outside song mode it returns
// 0, so every track counts as active and plays its selected pattern.
func (c *Clock) songPatternIndexForTrack(track scene.Track) int {
	s := c.scene
	if !s.SongMode {
		return 0
	}
	song := s.ActiveSong()
	pos := s.SongPosition
	if pos < 0 || pos >= song.Length {
		return -1
	}
	return int(song.Positions[pos].Patterns[track])
}

// activeSynthPattern resolves the pattern currently selected for synth
// track (0=A, 1=B), honoring the bank/index mirror state that song
// selection or direct user selection keeps up to date.
func (c *Clock) activeSynthPattern(track int) *scene.SynthPattern {
	s := c.scene
	bank := s.SynthBankIndex[track]
	idx := s.SynthPatternIndex[track]
	return s.SynthBank(track, bank).Patterns[idx]
}

func (c *Clock) activeDrumPatternSet() *scene.DrumPatternSet {
	s := c.scene
	return s.DrumBanks[s.DrumBankIndex].Patterns[s.DrumPatternIndex]
}

// applySongPositionSelection mirrors the resolved song-position
// patterns into the scene's bank/index selection fields, falling back
// to the current pattern-mode selection when a track rests at this
// position. no-op outside song mode.
func (c *Clock) applySongPositionSelection() {
	s := c.scene
	if !s.SongMode {
		return
	}
	song := s.ActiveSong()
	pos := clampSongPosition(s, s.SongPosition)
	s.SongPosition = pos
	c.songPlayhead = pos

	resolve := func(id int16) (bank, idx int, ok bool) {
		if id < 0 {
			return 0, 0, false
		}
		_, bank, idx = scene.DecodePatternID(id)
		if bank < 0 {
			bank = 0
		}
		if bank > 1 {
			bank = 1
		}
		return bank, idx, true
	}

	if bank, idx, ok := resolve(song.Positions[pos].Patterns[scene.TrackSynthA]); ok {
		s.SynthBankIndex[0] = bank
		s.SynthPatternIndex[0] = idx
	}
	if bank, idx, ok := resolve(song.Positions[pos].Patterns[scene.TrackSynthB]); ok {
		s.SynthBankIndex[1] = bank
		s.SynthPatternIndex[1] = idx
	}
	if bank, idx, ok := resolve(song.Positions[pos].Patterns[scene.TrackDrums]); ok {
		s.DrumBankIndex = bank
		s.DrumPatternIndex = idx
	}
}

// advanceSongPlayhead walks to the next song row, wrapping at the end
// of the song or, in loop mode, at the loop's end row; leaving the
// loop range externally (e.g. a user edit) snaps back to loopStart.
func (c *Clock) advanceSongPlayhead() {
	s := c.scene
	song := s.ActiveSong()
	length := song.Length
	if length < 1 {
		length = 1
	}
	next := (c.songPlayhead + 1) % length

	if s.LoopMode {
		loopStart, loopEnd := s.LoopStart, s.LoopEnd
		if loopStart < 0 {
			loopStart = 0
		}
		if loopEnd < 0 {
			loopEnd = 0
		}
		if loopStart >= length {
			loopStart = length - 1
		}
		if loopEnd >= length {
			loopEnd = length - 1
		}
		if loopStart > loopEnd {
			loopStart, loopEnd = loopEnd, loopStart
		}
		switch {
		case c.songPlayhead < loopStart || c.songPlayhead > loopEnd:
			next = loopStart
		case c.songPlayhead >= loopEnd:
			next = loopStart
		default:
			next = c.songPlayhead + 1
		}
	}

	c.songPlayhead = next
	s.SongPosition = next
	c.applySongPositionSelection()
}

func clampSongPosition(s *scene.Scene, pos int) int {
	song := s.ActiveSong()
	if pos < 0 {
		return 0
	}
	if pos >= song.Length {
		return song.Length - 1
	}
	return pos
}

// noteToFreq converts a MIDI-style note number to Hz, A4=69=440Hz.
func noteToFreq(note int8) float64 {
	return 440.0 * math.Pow(2, (float64(note)-69.0)/12.0)
}

// synthParamRange describes how an automation lane's evaluated value
// maps onto a numeric SynthParam's real-world range.
type synthParamRange struct {
	min, max float64
}

var synthParamRanges = [scene.SynthParamCount]synthParamRange{
	scene.SynthCutoff:     {min: 50, max: 4000},
	scene.SynthResonance:  {min: 0, max: 0.95},
	scene.SynthEnvAmount:  {min: 0, max: 6000},
	scene.SynthEnvDecay:   {min: 20, max: 2000},
	scene.SynthMainVolume: {min: 0, max: 1},
}

// applySynthAutomation evaluates every enabled lane on the active
// pattern for voiceIndex at fractional step t and pushes the mapped
// value onto v. Oscillator/FilterType lanes select by option index;
// every other lane maps linearly onto its real-world range.
func (c *Clock) applySynthAutomation(voiceIndex int, v *voice.Voice, t float64) {
	pattern := c.activeSynthPattern(voiceIndex)
	s := c.scene
	params := s.SynthParams[voiceIndex]

	for p := scene.SynthParam(0); p < scene.SynthParamCount; p++ {
		lane := pattern.Automation[p]
		if !lane.Enabled() || lane.Count() == 0 {
			continue
		}
		value := lane.Evaluate(t)

		switch p {
		case scene.SynthOscillator:
			params.OscType = optionIndex(lane, value, 5)
		case scene.SynthFilterType:
			kind := dspfilter.Kind(optionIndex(lane, value, int(dspfilter.KindCount)))
			v.SetFilterType(kind)
		default:
			r := synthParamRanges[p]
			norm := normalizeLane(lane, value)
			mapped := r.min + norm*(r.max-r.min)
			switch p {
			case scene.SynthCutoff:
				params.Cutoff = mapped
			case scene.SynthResonance:
				params.Resonance = mapped
			case scene.SynthEnvAmount:
				params.EnvAmount = mapped
			case scene.SynthEnvDecay:
				params.EnvDecay = mapped
			case scene.SynthMainVolume:
				s.TrackVolumes[voiceIndex] = mapped
			}
		}
	}

	s.SynthParams[voiceIndex] = params
	v.SetParams(params.Cutoff, params.Resonance, params.EnvAmount, params.EnvDecay, voice.Oscillator(params.OscType))
}

// applyDrumAutomation evaluates every enabled lane on the active drum
// pattern set at step t; the reference roster of drum parameters here
// is just the master volume lane.
func (c *Clock) applyDrumAutomation(t float64) {
	patternSet := c.activeDrumPatternSet()
	s := c.scene
	for p := scene.DrumParam(0); p < scene.DrumParamCount; p++ {
		lane := patternSet.Automation[p]
		if !lane.Enabled() || lane.Count() == 0 {
			continue
		}
		value := lane.Evaluate(t)
		norm := normalizeLane(lane, value)
		switch p {
		case scene.DrumMainVolume:
			s.MasterVolume = norm
		}
	}
}

// optionIndex resolves an evaluated lane value to an option index in
// [0, optionCount), preferring the lane's own recorded option count
// when it carries labels (matching the reference's label-remap path,
// simplified here since our option identities always agree).
func optionIndex(lane *automation.Lane, value uint8, optionCount int) int {
	if optionCount <= 1 {
		return 0
	}
	if lane.HasOptions() {
		idx := int(value)
		if idx >= lane.OptionCount() {
			idx = lane.OptionCount() - 1
		}
		if idx >= optionCount {
			idx = optionCount - 1
		}
		return idx
	}
	norm := float64(value) * automationValueScale
	idx := int(norm*float64(optionCount-1) + 0.5)
	if idx >= optionCount {
		idx = optionCount - 1
	}
	return idx
}

// normalizeLane returns an evaluated lane value as [0,1], respecting
// the lane's own option range when it has one.
func normalizeLane(lane *automation.Lane, value uint8) float64 {
	if lane.HasOptions() {
		max := lane.OptionCount() - 1
		if max <= 0 {
			return 0
		}
		idx := int(value)
		if idx > max {
			idx = max
		}
		return float64(idx) / float64(max)
	}
	return float64(value) * automationValueScale
}
