// Package voice implements the acid bassline synth voice: an
// oscillator bank feeding an envelope-modulated, hot-swappable filter,
// with optional LoFi degradation and bass-boost shelf. Grounded on the
// reference TB303Voice: super-saw detuning, sub-oscillator mix,
// exponential envelope decay, and the LoFi degradation chain
// (bit-crush, jitter, DC offset, soft clip). Each waveform is computed
// directly from a float64 phase; there is no wavetable and no
// fixed-point phase accumulator.
package voice

import (
	"math"

	"github.com/cbegin/acidcore-go/internal/dspfilter"
	"github.com/cbegin/acidcore-go/internal/lfo"
)

// Oscillator selects the waveform driving the voice.
type Oscillator int

const (
	OscSaw Oscillator = iota
	OscSquare
	OscSuperSaw
	OscPulse
	OscSub
)

// Mode gates whether LoFi degradation is applied at all; Acid mode
// bypasses it entirely (matches GrooveboxMode in the reference).
type Mode int

const (
	ModeAcid Mode = iota
	ModeMinimal
)

const superSawCount = 6

var superSawOffsets = [superSawCount]float64{-0.019, 0.019, -0.012, 0.012, -0.0065, 0.0065}

// Voice is one monophonic acid bassline synth voice.
type Voice struct {
	sampleRate    float64
	invSampleRate float64
	nyquist       float64

	phase      float64
	superPhase [superSawCount]float64
	subPhase   float64
	subLPF     float64

	freq       float64
	targetFreq float64
	slideSpeed float64
	slide      bool

	env  float64
	gate bool
	amp  float64

	decayMs   float64
	envAmount float64
	baseCutoff float64
	resonance float64

	osc    Oscillator
	filter dspfilter.Filter

	mode       Mode
	loFiAmount float64
	noiseState uint32
	driftPhase float64

	subEnabled bool
	subMix     float64
	noiseAmount float64

	bassBoostLPF float64

	pitchLFO, ampLFO, filterLFO lfo.LFO
}

// New constructs a voice at the given sample rate with a default
// SVF-lowpass filter and Acid-mode defaults.
func New(sampleRate float64) *Voice {
	v := &Voice{
		sampleRate:    sampleRate,
		invSampleRate: 1.0 / sampleRate,
		nyquist:       sampleRate * 0.5,
		slideSpeed:    0.003,
		decayMs:       300,
		envAmount:     2000,
		baseCutoff:    400,
		resonance:     0.3,
		amp:           1.0,
		noiseState:    12345,
		subMix:        0.25,
	}
	v.filter = dspfilter.New(dspfilter.KindSVFLowpass, sampleRate)
	return v
}

// SetFilterType hot-swaps the filter model: a fresh instance replaces
// the current one and its state resets. No allocation occurs on the
// audio thread beyond the small filter struct itself.
func (v *Voice) SetFilterType(kind dspfilter.Kind) {
	v.filter = dspfilter.New(kind, v.sampleRate)
}

// SetParams sets the voice's static parameters (cutoff, resonance,
// envAmount, decayMs, oscillator).
func (v *Voice) SetParams(cutoff, resonance, envAmount, decayMs float64, osc Oscillator) {
	v.baseCutoff = cutoff
	v.resonance = resonance
	v.envAmount = envAmount
	v.decayMs = decayMs
	v.osc = osc
}

// SetMode toggles LoFi degradation eligibility.
func (v *Voice) SetMode(m Mode) { v.mode = m }

// SetLoFiAmount sets the 0..1 LoFi degradation amount.
func (v *Voice) SetLoFiAmount(amt float64) { v.loFiAmount = amt }

// SetSubOscillator enables/disables the dedicated sub-oscillator layer.
func (v *Voice) SetSubOscillator(enabled bool) { v.subEnabled = enabled }

// SetNoiseAmount sets the amount of noise mixed into the output.
func (v *Voice) SetNoiseAmount(amt float64) { v.noiseAmount = amt }

// SetPitchLFO configures the pitch-modulation LFO.
func (v *Voice) SetPitchLFO(depth, rateHz float64, waveform int) {
	v.pitchLFO.Set(depth, rateHz, waveform)
}

// SetAmpLFO configures the amplitude-modulation LFO.
func (v *Voice) SetAmpLFO(depth, rateHz float64, waveform int) {
	v.ampLFO.Set(depth, rateHz, waveform)
}

// SetFilterLFO configures the filter-cutoff-modulation LFO.
func (v *Voice) SetFilterLFO(depth, rateHz float64, waveform int) {
	v.filterLFO.Set(depth, rateHz, waveform)
}

// StartNote triggers the voice: gate on, envelope reset (2.0 on
// accent, else 1.0), target frequency set, and frequency snapped
// immediately unless slide is requested.
func (v *Voice) StartNote(freqHz float64, accent, slide bool, velocity int) {
	v.gate = true
	if accent {
		v.env = 2.0
	} else {
		v.env = 1.0
	}
	v.targetFreq = freqHz
	v.slide = slide
	if !slide {
		v.freq = freqHz
	}
	if velocity <= 0 {
		velocity = 100
	}
	v.amp = float64(velocity) / 100.0
}

// Release clears the gate; the envelope continues to decay and the
// voice falls silent once env < 0.0001.
func (v *Voice) Release() { v.gate = false }

// Active reports whether the voice is still producing audible output.
func (v *Voice) Active() bool { return v.gate || v.env >= 0.0001 }

// Freq returns the voice's current (slewed) frequency.
func (v *Voice) Freq() float64 { return v.freq }

// Process renders one sample.
func (v *Voice) Process() float64 {
	if !v.gate && v.env < 0.0001 {
		return 0
	}

	if v.slide && v.freq != v.targetFreq {
		v.freq += (v.targetFreq - v.freq) * v.slideSpeed
	} else {
		v.freq = v.targetFreq
	}

	pitchMod := v.pitchLFO.Sample(v.sampleRate)
	freq := v.freq * math.Pow(2, pitchMod/12.0)

	osc := v.oscillatorSample(freq)
	if v.subEnabled {
		sub := v.oscSub(freq / 2)
		v.subLPF += 0.05 * (sub - v.subLPF)
		osc = osc*(1-v.subMix) + v.subLPF*v.subMix
	}
	if v.noiseAmount > 0 {
		osc += v.noise() * v.noiseAmount
	}

	decaySamples := v.decayMs * v.sampleRate * 0.001
	if decaySamples < 1 {
		decaySamples = 1
	}
	v.env *= math.Exp(math.Log(0.01) / decaySamples)

	cutoff := v.baseCutoff + v.envAmount*v.env + v.filterLFO.Sample(v.sampleRate)
	if cutoff < 50 {
		cutoff = 50
	}
	if max := 0.9 * v.nyquist; cutoff > max {
		cutoff = max
	}
	filtered := v.filter.Process(osc, cutoff, v.resonance)

	if v.mode != ModeAcid && v.loFiAmount > 0.001 {
		filtered = v.applyLoFiDegradation(filtered)
	}

	filtered = v.bassBoost(filtered)

	ampMod := 1.0 + v.ampLFO.Sample(v.sampleRate)
	if ampMod < 0 {
		ampMod = 0
	}
	return filtered * v.amp * ampMod
}

func (v *Voice) oscillatorSample(freq float64) float64 {
	switch v.osc {
	case OscSquare:
		return v.oscSquare(freq)
	case OscSuperSaw:
		return v.oscSuperSaw(freq)
	case OscPulse:
		return v.oscPulse(freq)
	case OscSub:
		return v.oscSub(freq)
	default:
		return v.oscSaw(freq)
	}
}

func (v *Voice) advancePhase(p *float64, freq float64) float64 {
	cur := *p
	*p += freq * v.invSampleRate
	for *p >= 1.0 {
		*p -= 1.0
	}
	return cur
}

func (v *Voice) oscSaw(freq float64) float64 {
	ph := v.advancePhase(&v.phase, freq)
	out := 2.0*ph - 1.0
	if v.mode == ModeMinimal {
		out = softClip(out * 1.3)
	}
	return out
}

func (v *Voice) oscSquare(freq float64) float64 {
	ph := v.advancePhase(&v.phase, freq)
	if ph < 0.5 {
		return 1.0
	}
	return -1.0
}

func (v *Voice) oscPulse(freq float64) float64 {
	ph := v.advancePhase(&v.phase, freq)
	if ph < 0.3 {
		return 1.0
	}
	return -1.0
}

func (v *Voice) oscSub(freq float64) float64 {
	saw := 2.0*v.advancePhase(&v.subPhase, freq) - 1.0
	sq := 1.0
	if v.subPhase >= 0.5 {
		sq = -1.0
	}
	return saw*0.7 + sq*0.3
}

func (v *Voice) oscSuperSaw(freq float64) float64 {
	var sum float64
	for i := 0; i < superSawCount; i++ {
		f := freq * (1.0 + superSawOffsets[i])
		ph := v.advancePhase(&v.superPhase[i], f)
		sum += 2.0*ph - 1.0
	}
	return sum / superSawCount
}

func (v *Voice) noise() float64 {
	v.noiseState = v.noiseState*1664525 + 1013904223
	return (float64(int32(v.noiseState)) / 2147483648.0)
}

// applyLoFiDegradation: bit-reduction, micro-jitter, DC offset, soft
// saturation — gated by mode and loFiAmount (see SPEC_FULL §5.3).
func (v *Voice) applyLoFiDegradation(input float64) float64 {
	bits := 12.0 - v.loFiAmount*6.0
	levels := math.Pow(2, bits)
	crushed := math.Round(input*levels) / levels

	jitter := v.noise() * 0.002 * v.loFiAmount
	dc := 0.005 * v.loFiAmount

	out := crushed + jitter + dc
	if out > 0.4 {
		out = 0.4 + (out-0.4)*0.3
	} else if out < -0.4 {
		out = -0.4 + (out+0.4)*0.3
	}
	return out
}

func (v *Voice) bassBoost(input float64) float64 {
	const cutoff = 0.01
	const boost = 1.25
	v.bassBoostLPF += cutoff * (input - v.bassBoostLPF)
	return input + v.bassBoostLPF*(boost-1.0)
}

func softClip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x - (x*x*x)/3
}
