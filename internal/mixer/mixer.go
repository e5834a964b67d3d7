// Package mixer implements the master chain: per-synth distortion and
// tempo-delay sends, drum voice summation, the tape bus, a soft
// limiter, a bass-boost shelf, and int16 quantization with dither.
// Grounded on the teacher's internal/effects (Distortion, Delay) and
// original_source/src/dsp/mini_acid_engine.cpp's render order.
package mixer

import (
	"math"

	"github.com/cbegin/acidcore-go/internal/drumengine"
	"github.com/cbegin/acidcore-go/internal/formant"
	"github.com/cbegin/acidcore-go/internal/tape"
	"github.com/cbegin/acidcore-go/internal/tempodelay"
)

// distortion is a small tanh waveshaper with pre/post gain, generalized
// from the teacher's effects.Distortion to float64 and mono. No
// smoothing filter follows the waveshaper; the lpf field is not used.
type distortion struct {
	drive, makeup float64
	enabled       bool
	lpf           float64
}

func newDistortion() *distortion {
	return &distortion{drive: 1.0, makeup: 1.0}
}

func (d *distortion) SetEnabled(v bool)    { d.enabled = v }
func (d *distortion) SetDrive(v float64)   { d.drive = v }
func (d *distortion) SetMakeup(v float64)  { d.makeup = v }

func (d *distortion) process(x float64) float64 {
	if !d.enabled {
		return x
	}
	shaped := math.Tanh(x * d.drive)
	return shaped * d.makeup
}

// SynthChannel bundles a synth voice's send chain: distortion into
// tempo-synced delay, matching spec step 1/2 ("process() x 0.5 ->
// distortion -> delay").
type SynthChannel struct {
	Distortion *distortion
	Delay      *tempodelay.Delay
	mute       bool
	volume     float64
}

// NewSynthChannel constructs a synth channel at sampleRate with an
// 8-second-max delay line.
func NewSynthChannel(sampleRate float64) *SynthChannel {
	return &SynthChannel{
		Distortion: newDistortion(),
		Delay:      tempodelay.New(sampleRate, 8.0),
		volume:     1.0,
	}
}

func (c *SynthChannel) SetMute(m bool)      { c.mute = m }
func (c *SynthChannel) Mute() bool          { return c.mute }
func (c *SynthChannel) SetVolume(v float64) { c.volume = v }
func (c *SynthChannel) Volume() float64     { return c.volume }

// Process applies 0.5 trim, distortion, then tempo delay to a raw
// voice output, honoring mute/volume.
func (c *SynthChannel) Process(voiceOut float64) float64 {
	if c.mute {
		return 0
	}
	x := voiceOut * 0.5 * c.volume
	x = c.Distortion.process(x)
	return c.Delay.Process(x)
}

// DrumBus sums the enabled voices of a drumengine.Engine.
type DrumBus struct {
	muted  [drumengine.VoiceCount]bool
	volume float64
}

// NewDrumBus constructs a drum bus with every voice unmuted at unity
// volume.
func NewDrumBus() *DrumBus {
	return &DrumBus{volume: 1.0}
}

func (b *DrumBus) SetVoiceMute(v drumengine.VoiceType, mute bool) {
	if v >= 0 && v < drumengine.VoiceCount {
		b.muted[v] = mute
	}
}

func (b *DrumBus) VoiceMute(v drumengine.VoiceType) bool {
	if v >= 0 && v < drumengine.VoiceCount {
		return b.muted[v]
	}
	return false
}

func (b *DrumBus) SetVolume(v float64) { b.volume = v }
func (b *DrumBus) Volume() float64     { return b.volume }

// Sum renders and sums every unmuted voice from engine.
func (b *DrumBus) Sum(engine drumengine.Engine) float64 {
	var out float64
	for v := drumengine.VoiceType(0); v < drumengine.VoiceCount; v++ {
		if b.muted[v] {
			continue
		}
		out += engine.Process(v)
	}
	return out * b.volume
}

// bassShelf is a one-pole low-shelf used for the master bass boost.
type bassShelf struct {
	z1 float64
}

func (s *bassShelf) process(x, cutoffCoeff, boost float64) float64 {
	s.z1 += cutoffCoeff * (x - s.z1)
	return x + s.z1*boost
}

// dither is a triangular-PDF LCG dither for the final int16 quantize.
type dither struct {
	state uint32
}

func (d *dither) next() float64 {
	d.state = d.state*1664525 + 1013904223
	a := float64(int32(d.state)) / 2147483648.0
	d.state = d.state*1664525 + 1013904223
	b := float64(int32(d.state)) / 2147483648.0
	return (a + b) * 0.5 / 32768.0
}

// Master is the final mix stage: gain, soft limiter, bass boost,
// dither, and int16 quantization.
type Master struct {
	sampleRate float64

	MainVolume       float64
	SceneMasterGain  float64
	BassBoostAmount  float64
	HighCutAmount    float64

	shelf   bassShelf
	hicut   float64
	dith    dither
}

// NewMaster constructs a master chain at sampleRate with unity gains.
func NewMaster(sampleRate float64) *Master {
	return &Master{
		sampleRate:      sampleRate,
		MainVolume:      1.0,
		SceneMasterGain: 1.0,
		dith:            dither{state: 0xC0FFEE},
	}
}

func (m *Master) softLimit(x float64) float64 {
	const knee = 0.95
	a := math.Abs(x)
	if a <= knee {
		return x
	}
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	over := (a - knee) / (1 - knee)
	shaped := knee + (1-knee)*math.Tanh(over)
	return sign * shaped
}

// Process takes the summed pre-master signal (synth bus + drum bus +
// formant, already through the tape bus) and produces one int16
// sample per spec steps 6-9.
func (m *Master) Process(x float64) int16 {
	gain := 0.65 * m.MainVolume * m.SceneMasterGain
	out := x * gain
	out = m.softLimit(out)
	if m.BassBoostAmount > 0 {
		out = m.shelf.process(out, 0.08, m.BassBoostAmount)
	}
	if m.HighCutAmount > 0 {
		m.hicut += (1 - m.HighCutAmount) * (out - m.hicut)
		out = m.hicut
	}
	out += m.dith.next()
	if out > 1 {
		out = 1
	}
	if out < -1 {
		out = -1
	}
	return int16(out * 32767)
}

// Chain is the full master chain: two synth channels, a drum bus, the
// tape bus (looper + TapeFX), the formant voice with its VocalMixer
// and Compressor, and the Master stage.
type Chain struct {
	SynthA, SynthB *SynthChannel
	Drums          *DrumBus
	Looper         *tape.Looper
	TapeFX         *tape.TapeFX
	Voice          *formant.Synth
	VocalMixer     *formant.VocalMixer
	Compressor     *formant.Compressor
	Master         *Master

	tapeFXEnabled bool
}

// NewChain wires a complete mixer chain at sampleRate.
func NewChain(sampleRate float64) *Chain {
	return &Chain{
		SynthA:        NewSynthChannel(sampleRate),
		SynthB:        NewSynthChannel(sampleRate),
		Drums:         NewDrumBus(),
		Looper:        tape.NewLooper(sampleRate),
		TapeFX:        tape.NewTapeFX(sampleRate),
		Voice:         formant.New(sampleRate),
		VocalMixer:    formant.NewVocalMixer(),
		Compressor:    formant.NewCompressor(true),
		Master:        NewMaster(sampleRate),
		tapeFXEnabled: true,
	}
}

// SetTapeFXEnabled bypasses TapeFX's wet processing (the looper still
// runs) when false, mirroring scene.TapeState.FXEnabled.
func (c *Chain) SetTapeFXEnabled(v bool) { c.tapeFXEnabled = v }

// RenderSample composes one full sample through the pipeline
// described in spec §4.9: voices -> synth bus -> + drum bus + voice ->
// tape bus -> master.
func (c *Chain) RenderSample(voiceAOut, voiceBOut float64, drums drumengine.Engine) int16 {
	synthBus := c.SynthA.Process(voiceAOut) + c.SynthB.Process(voiceBOut)
	drumBus := c.Drums.Sum(drums)

	voiceRaw := c.Voice.Process()
	voiceConditioned := c.Compressor.Process(voiceRaw)
	musicBus := synthBus + drumBus
	mixed := c.VocalMixer.Mix(musicBus, voiceConditioned, c.Voice.IsSpeaking())

	var loopPart float64
	c.Looper.Process(mixed, &loopPart)
	tapeIn := mixed + loopPart
	tapeOut := tapeIn
	if c.tapeFXEnabled {
		tapeOut = c.TapeFX.Process(tapeIn)
	}

	return c.Master.Process(tapeOut)
}
