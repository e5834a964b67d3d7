// Package dspfilter implements the swappable filter slot used by the
// acid synth voice: a state-variable (Chamberlin) lowpass, a
// diode-ladder-style acid filter, and a Moog-style ladder filter, all
// behind one Filter interface so the voice can hot-swap models.
package dspfilter

import "math"

// Filter is the swappable filter slot's interface. Process takes the
// raw input sample plus the cutoff (Hz) and resonance (0..1) computed
// by the caller for this sample, and returns the filtered output.
type Filter interface {
	Reset()
	SetSampleRate(sr float64)
	Process(input, cutoffHz, resonance float64) float64
}

// Kind enumerates the filter models exposed to the FilterType parameter.
type Kind int

const (
	KindSVFLowpass Kind = iota
	KindDiodeAcid
	KindMoogLadder
	KindCount
)

// Labels are the option labels for the FilterType parameter.
var Labels = []string{"lp1", "acid", "moog"}

// New constructs a fresh filter instance of the given kind at sr Hz.
// Swapping to a new instance (rather than mutating in place) is the
// hot-swap contract: the caller discards the old pointer after the
// audio-guarded swap.
func New(kind Kind, sr float64) Filter {
	switch kind {
	case KindDiodeAcid:
		f := &DiodeAcid{}
		f.SetSampleRate(sr)
		return f
	case KindMoogLadder:
		f := &MoogLadder{}
		f.SetSampleRate(sr)
		return f
	default:
		f := &Chamberlin{}
		f.SetSampleRate(sr)
		return f
	}
}

// Chamberlin is the classic state-variable lowpass topology used as
// the reference's canonical ChamberlinFilterLp.
type Chamberlin struct {
	lp, bp, hp float64
	sampleRate float64
}

func (f *Chamberlin) Reset() { f.lp, f.bp, f.hp = 0, 0, 0 }

func (f *Chamberlin) SetSampleRate(sr float64) { f.sampleRate = sr }

func (f *Chamberlin) Process(input, cutoffHz, resonance float64) float64 {
	freq := 2.0 * math.Sin(math.Pi*cutoffHz/f.sampleRate)
	if freq > 1.0 {
		freq = 1.0
	}
	q := 1.0 - resonance
	if q < 0.01 {
		q = 0.01
	}
	f.lp += freq * f.bp
	f.hp = input - f.lp - q*f.bp
	f.bp += freq * f.hp
	return f.lp
}

// DiodeAcid approximates a diode-ladder-style resonant lowpass
// (304-ish "acid" character): a 2-pole cascade with a resonance
// feedback tap taken from the second pole's output, driven through a soft
// nonlinearity to emulate diode clipping.
type DiodeAcid struct {
	z1, z2     float64
	sampleRate float64
}

func (f *DiodeAcid) Reset() { f.z1, f.z2 = 0, 0 }

func (f *DiodeAcid) SetSampleRate(sr float64) { f.sampleRate = sr }

func (f *DiodeAcid) Process(input, cutoffHz, resonance float64) float64 {
	g := cutoffHz / (f.sampleRate * 0.5)
	if g > 0.99 {
		g = 0.99
	}
	fb := resonance * 4.2
	driven := input - fb*f.z2
	driven = diodeShape(driven)
	f.z1 += g * (driven - f.z1)
	f.z2 += g * (f.z1 - f.z2)
	return f.z2
}

func diodeShape(x float64) float64 {
	return math.Tanh(x * 1.5)
}

// MoogLadder is a 4-pole transistor-ladder approximation (Stilson/Smith
// style) with resonance feedback around all four stages.
type MoogLadder struct {
	stage      [4]float64
	sampleRate float64
}

func (f *MoogLadder) Reset() { f.stage = [4]float64{} }

func (f *MoogLadder) SetSampleRate(sr float64) { f.sampleRate = sr }

func (f *MoogLadder) Process(input, cutoffHz, resonance float64) float64 {
	g := cutoffHz / (f.sampleRate * 0.5)
	if g > 0.99 {
		g = 0.99
	}
	fb := resonance * 4.0
	in := math.Tanh(input - fb*f.stage[3])
	for i := 0; i < 4; i++ {
		f.stage[i] += g * (in - f.stage[i])
		in = f.stage[i]
	}
	return f.stage[3]
}
