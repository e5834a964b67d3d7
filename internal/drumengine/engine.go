// Package drumengine implements the drum-engine slot: a polymorphic
// variant over three analog-style drum machines (TR-808, TR-909,
// TR-606), each exposing the same 9-voice one-shot trigger set. The
// engine is replaceable at runtime by constructing a fresh variant;
// the old instance is discarded after an audio-guarded pointer swap.
package drumengine

import "math"

// VoiceType enumerates the fixed 9-voice roster shared by every engine.
type VoiceType int

const (
	Kick VoiceType = iota
	Snare
	ClosedHat
	OpenHat
	MidTom
	HighTom
	Rim
	Clap
	Cymbal
	VoiceCount
)

// Kind names the three engine variants implemented here.
type Kind int

const (
	KindTR808 Kind = iota
	KindTR909
	KindTR606
	KindCount
)

// Names are the user-facing engine names, matching the "808"|"909"|"606"
// strings accepted by the engine façade's SetDrumEngine.
var Names = []string{"808", "909", "606"}

// KindByName resolves a name to a Kind, or false if unrecognized.
func KindByName(name string) (Kind, bool) {
	for i, n := range Names {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Engine is the common interface every drum-engine variant implements:
// a fixed trigger + render pair per voice, shared lifecycle, and a
// single "MainVolume" parameter.
type Engine interface {
	Reset()
	SetSampleRate(sr float64)
	Trigger(v VoiceType, accent bool, velocity int)
	Process(v VoiceType) float64
	MainVolume() float64
	SetMainVolume(v float64)
	SetLoFiMode(enabled bool)
	SetLoFiAmount(amount float64)
}

// New constructs a fresh engine of the given kind at sr Hz.
func New(kind Kind, sr float64) Engine {
	switch kind {
	case KindTR909:
		return newTR909(sr)
	case KindTR606:
		return newTR606(sr)
	default:
		return newTR808(sr)
	}
}

// biquad is the shared 2-pole filter used by the clap/cymbal/hat
// bandpass and lowpass stages across all three engines.
type biquad struct {
	a0, a1, a2, b1, b2 float64
	z1, z2             float64
}

func (b *biquad) reset() { b.z1, b.z2 = 0, 0 }

func (b *biquad) process(input float64) float64 {
	output := b.a0*input + b.z1
	b.z1 = b.a1*input - b.b1*output + b.z2
	b.z2 = b.a2*input - b.b2*output
	return output
}

// setBandpass configures the biquad as an RBJ bandpass with constant
// skirt gain centered at freqHz with the given Q.
func (b *biquad) setBandpass(freqHz, q, sampleRate float64) {
	w0 := 2 * math.Pi * freqHz / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	b0 := alpha
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	b.a0 = b0 / a0
	b.a2 = b2 / a0
	b.b1 = a1 / a0
	b.b2 = a2 / a0
}

// lofiDrumFX is the shared per-engine lo-fi post stage: bit-crush,
// soft tanh, a highpass, and vinyl-pop noise. No pitch drift is
// applied, here or by the engines: driftPhase is never read.
type lofiDrumFX struct {
	enabled    bool
	amount     float64
	noiseState uint32
	driftPhase float64
	hpZ1       float64
}

func newLoFiDrumFX() *lofiDrumFX {
	return &lofiDrumFX{noiseState: 0xBEEF}
}

func (l *lofiDrumFX) setAmount(a float64) { l.amount = a }
func (l *lofiDrumFX) setEnabled(e bool)   { l.enabled = e }

func (l *lofiDrumFX) process(input float64, sampleRate float64) float64 {
	if !l.enabled || l.amount <= 0.001 {
		return input
	}
	bits := 12.0 - l.amount*6.0
	levels := math.Pow(2, bits)
	crushed := math.Round(input*levels) / levels

	crushed = fastTanh(crushed * (1.0 + l.amount))

	cutoff := 60.0 + 100.0*l.amount
	alpha := cutoff / (sampleRate * 0.5)
	hp := alpha * (crushed - l.hpZ1)
	l.hpZ1 = crushed

	l.noiseState = l.noiseState*1664525 + 1013904223
	pop := 0.0
	if (l.noiseState>>24)&0xFF < uint32(l.amount*2.55) {
		pop = (float64(int32(l.noiseState)) / 2147483648.0) * 0.3
	}

	return hp + pop*0.01*l.amount
}

func fastTanh(x float64) float64 {
	if x < -3 {
		return -1
	}
	if x > 3 {
		return 1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}
