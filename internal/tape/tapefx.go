// Package tape implements the tape bus: TapeFX (wow/flutter, age,
// saturation, tone, bitcrush, space delay, movement) and TapeLooper (an
// 8-second mono ring buffer with a Stop/Rec/Dub/Play mode machine).
// Grounded on original_source/src/dsp/tape_fx.{h,cpp} and
// tape_looper.{h,cpp}.
package tape

import "math"

const (
	delaySize      = 1024
	delayMask      = delaySize - 1
	spaceDelaySize = 4096
	lfoUpdateRate  = 32 // matches the sequencer's automation stride (§4.8)
)

// Macro is the five-dial tape-color control surface plus the Minimal
// extensions (space/movement/groove).
type Macro struct {
	Wow, Age, Sat, Tone, Crush float64
	Space, Movement, Groove    float64
}

// resonantLPF is a cheap state-variable lowpass reused for warmth,
// tone, and crush pre-filtering.
type resonantLPF struct {
	low, band float64
}

func (f *resonantLPF) process(input, cutoff, resonance float64) float64 {
	fc := cutoff * 1.16
	fb := resonance * (1.0 - 0.15*fc*fc)
	f.low += fc * f.band
	high := input - f.low - fb*f.band
	f.band += fc * high
	return f.low
}

func (f *resonantLPF) reset() { f.low, f.band = 0, 0 }

// TapeFX applies the five macro-controlled tape-color stages.
type TapeFX struct {
	sampleRate float64

	buffer     [delaySize]float64
	writePos   uint32
	currentMacro Macro
	dirty      bool

	wowSin, wowCos         float64
	wowStepSin, wowStepCos float64
	flutterSin, flutterCos float64
	flutterStepSin, flutterStepCos float64
	lfoCounter uint16

	wowDepth, flutterRatio float64
	ageAmount, noiseAmount float64
	drive, satMix          float64
	lpfCutoff, lpfResonance float64
	crushBits, crushDownsample int
	warmthCutoffNorm float64

	warmthLPF, toneLPF, crushLPF resonantLPF
	crushCounter int
	crushHold    float64

	noiseState uint32
	pinkB0, pinkB1, pinkB2, pinkB3, pinkB4, pinkB5, pinkB6 float64

	spaceAmount, movementAmount float64
	movementPhase, movementFreq, movementZ1 float64

	spaceBuffer   [spaceDelaySize]float64
	spaceWritePos uint32
}

// NewTapeFX constructs a TapeFX at sampleRate with cos(0)=1 LFO phase state.
func NewTapeFX(sampleRate float64) *TapeFX {
	t := &TapeFX{
		sampleRate:     sampleRate,
		wowCos:         1.0,
		flutterCos:     1.0,
		lpfCutoff:      0.9,
		lpfResonance:   0.1,
		crushBits:      16,
		crushDownsample: 1,
		warmthCutoffNorm: 0.5,
		noiseState:     0x12345678,
		movementFreq:   0.5,
		dirty:          true,
	}
	return t
}

// ApplyMacro marks the macro dirty so the next process() recomputes
// derived DSP parameters; call once per audio block, not per sample.
func (t *TapeFX) ApplyMacro(m Macro) {
	t.currentMacro = m
	t.dirty = true
}

// InvalidateParams forces recalculation on the next Process call.
func (t *TapeFX) InvalidateParams() { t.dirty = true }

func (t *TapeFX) updateInternalParams() {
	m := t.currentMacro
	t.wowDepth = m.Wow * 12.0
	t.flutterRatio = 0
	if m.Wow > 0.5 {
		t.flutterRatio = (m.Wow - 0.5) * 2.0
	}
	t.ageAmount = m.Age
	t.noiseAmount = m.Age * 0.1
	t.drive = 1.0 + 1.5*m.Sat
	t.satMix = 0.3 + 0.4*m.Sat
	t.lpfCutoff = 0.3 + (1.0-m.Tone)*0.6
	t.lpfResonance = 0.1
	t.crushBits = int(16 - m.Crush*10)
	if t.crushBits < 4 {
		t.crushBits = 4
	}
	t.crushDownsample = 1 + int(m.Crush*2)
	t.warmthCutoffNorm = 0.9 - m.Age*0.7 // 8kHz -> 2kHz-ish normalized sweep
	t.spaceAmount = m.Space
	t.movementAmount = m.Movement
	t.dirty = false
}

// ApplyMinimalParams sets the Minimal-mode extension macros directly
// (space/movement/groove), matching the reference's byte-valued API.
func (t *TapeFX) ApplyMinimalParams(space, movement, groove uint8) {
	t.currentMacro.Space = float64(space) / 255.0
	t.currentMacro.Movement = float64(movement) / 255.0
	t.currentMacro.Groove = float64(groove) / 255.0
	t.dirty = true
}

func (t *TapeFX) updateLFO() {
	t.wowSin, t.wowCos = rotate(t.wowSin, t.wowCos, 2*math.Pi*0.3/t.sampleRate*float64(lfoUpdateRate))
	t.flutterSin, t.flutterCos = rotate(t.flutterSin, t.flutterCos, 2*math.Pi*6.0/t.sampleRate*float64(lfoUpdateRate))
	// periodically renormalize to fight rotation-matrix drift
	norm := math.Hypot(t.wowSin, t.wowCos)
	if norm > 0 {
		t.wowSin /= norm
		t.wowCos /= norm
	}
	norm = math.Hypot(t.flutterSin, t.flutterCos)
	if norm > 0 {
		t.flutterSin /= norm
		t.flutterCos /= norm
	}
}

func rotate(s, c, theta float64) (float64, float64) {
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	return s*cosT + c*sinT, c*cosT - s*sinT
}

func (t *TapeFX) fastTanh(x float64) float64 {
	if x < -3 {
		return -1
	}
	if x > 3 {
		return 1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

func (t *TapeFX) fastNoise() float64 {
	t.noiseState ^= t.noiseState << 13
	t.noiseState ^= t.noiseState >> 17
	t.noiseState ^= t.noiseState << 5
	return float64(int32(t.noiseState)) / 2147483648.0
}

// generatePinkNoise is a cheap 7-pole Paul Kellet-style pink filter.
func (t *TapeFX) generatePinkNoise() float64 {
	white := t.fastNoise()
	t.pinkB0 = 0.99886*t.pinkB0 + white*0.0555179
	t.pinkB1 = 0.99332*t.pinkB1 + white*0.0750759
	t.pinkB2 = 0.96900*t.pinkB2 + white*0.1538520
	t.pinkB3 = 0.86650*t.pinkB3 + white*0.3104856
	t.pinkB4 = 0.55000*t.pinkB4 + white*0.5329522
	t.pinkB5 = -0.7616*t.pinkB5 - white*0.0168980
	pink := t.pinkB0 + t.pinkB1 + t.pinkB2 + t.pinkB3 + t.pinkB4 + t.pinkB5 + t.pinkB6 + white*0.5362
	t.pinkB6 = white * 0.115926
	return pink * 0.11
}

func (t *TapeFX) readDelayInterpolated(delaySamples float64) float64 {
	readPos := float64(t.writePos) - delaySamples
	for readPos < 0 {
		readPos += delaySize
	}
	i0 := uint32(readPos) & delayMask
	i1 := (i0 + 1) & delayMask
	frac := readPos - math.Floor(readPos)
	return t.buffer[i0]*(1-frac) + t.buffer[i1]*frac
}

// Process renders one sample through the full macro chain.
func (t *TapeFX) Process(input float64) float64 {
	if t.dirty {
		t.updateInternalParams()
	}

	t.lfoCounter++
	if t.lfoCounter >= lfoUpdateRate {
		t.lfoCounter = 0
		t.updateLFO()
	}

	// (1) wow/flutter
	t.buffer[t.writePos&delayMask] = input
	t.writePos++
	wowMod := t.wowSin * t.wowDepth
	flutterMod := 0.0
	if t.flutterRatio > 0 {
		flutterMod = t.flutterSin * t.flutterRatio * 4.0
	}
	delaySamples := 8.0 + wowMod + flutterMod
	if delaySamples < 1 {
		delaySamples = 1
	}
	out := t.readDelayInterpolated(delaySamples)

	// (2) pink-noise age
	if t.ageAmount > 0.001 {
		pink := t.generatePinkNoise() * t.noiseAmount
		out = t.warmthLPF.process(out+pink, t.warmthCutoffNorm, 0.1)
	}

	// (3) soft saturation
	driven := t.fastTanh(out * t.drive)
	out = out*(1-t.satMix) + driven*t.satMix

	// (4) resonant tone lowpass
	out = t.toneLPF.process(out, t.lpfCutoff, t.lpfResonance)

	// (5) bitcrush with pre-LPF and optional downsample
	if t.crushBits < 16 {
		levels := math.Pow(2, float64(t.crushBits))
		pre := t.crushLPF.process(out, 0.5, 0.05)
		t.crushCounter++
		if t.crushCounter >= t.crushDownsample {
			t.crushCounter = 0
			t.crushHold = math.Round(pre*levels) / levels
		}
		out = t.crushHold
	}

	// (6) space delay
	if t.spaceAmount > 0.001 {
		spaceRead := t.spaceBuffer[t.spaceWritePos]
		t.spaceBuffer[t.spaceWritePos] = out + spaceRead*0.35
		t.spaceWritePos = (t.spaceWritePos + 1) % spaceDelaySize
		out = out + spaceRead*t.spaceAmount
	}

	// (7) movement LFO-modulated one-pole
	if t.movementAmount > 0.001 {
		t.movementPhase += t.movementFreq / t.sampleRate
		for t.movementPhase >= 1 {
			t.movementPhase -= 1
		}
		coeff := 0.1 + 0.4*(0.5+0.5*math.Sin(2*math.Pi*t.movementPhase))
		t.movementZ1 += coeff * (out - t.movementZ1)
		out = out*(1-t.movementAmount) + t.movementZ1*t.movementAmount
	}

	return out
}
