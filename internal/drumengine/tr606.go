package drumengine

import "math"

var tr606MetalFreqs = [6]float64{330, 558, 880, 1320, 1760, 2640}

// tr606 implements the TR-606-style roster: FM kicks/toms and a shared
// 6-oscillator metal bank driving the hat/cymbal voices through a
// highpass and biquad bandpass.
type tr606 struct {
	sampleRate float64

	kickPhase, kickAmpEnv, kickFmEnv float64
	kickActive                      bool

	snareTonePhaseA, snareTonePhaseB float64
	snareToneEnv, snareNoiseEnv      float64
	snareNoiseLp                     onePole
	snareActive                      bool

	midTomPhase, midTomAmpEnv, midTomFmEnv   float64
	midTomActive                             bool
	highTomPhase, highTomAmpEnv, highTomFmEnv float64
	highTomActive                            bool

	rimPhase, rimEnv float64
	rimActive        bool

	clapBursts [3]float64
	clapWaits  [3]int
	clapActive bool

	metalPhases  [6]float64
	hatEnv       float64
	openHatEnv   float64
	hatActive    bool
	openHatActive bool
	hatMetalLp   onePole

	cymbalEnv    float64
	cymbalActive bool
	cymbalBandpass biquad

	noiseState uint32
	mainVolume float64
	lofi       *lofiDrumFX
}

type onePole struct {
	z float64
}

func (o *onePole) process(input, coeff float64) float64 {
	o.z += coeff * (input - o.z)
	return o.z
}

func newTR606(sr float64) *tr606 {
	e := &tr606{sampleRate: sr, mainVolume: 1.0, noiseState: 0x1357}
	e.lofi = newLoFiDrumFX()
	e.cymbalBandpass.setBandpass(3200, 1.5, sr)
	return e
}

func (e *tr606) Reset()                   { *e = *newTR606(e.sampleRate) }
func (e *tr606) SetSampleRate(sr float64) { e.sampleRate = sr }
func (e *tr606) MainVolume() float64      { return e.mainVolume }
func (e *tr606) SetMainVolume(v float64)  { e.mainVolume = v }
func (e *tr606) SetLoFiMode(en bool)      { e.lofi.setEnabled(en) }
func (e *tr606) SetLoFiAmount(a float64)  { e.lofi.setAmount(a) }

func (e *tr606) noise() float64 {
	e.noiseState = e.noiseState*1664525 + 1013904223
	return float64(int32(e.noiseState)) / 2147483648.0
}

func (e *tr606) Trigger(v VoiceType, accent bool, velocity int) {
	vel := float64(velocity) / 100.0
	gain := accentGain(accent)
	switch v {
	case Kick:
		e.kickActive, e.kickPhase, e.kickAmpEnv, e.kickFmEnv = true, 0, vel*gain, 1.0
	case Snare:
		e.snareActive, e.snareToneEnv, e.snareNoiseEnv = true, vel*gain, vel
	case ClosedHat:
		e.hatActive, e.hatEnv = true, vel
		e.openHatEnv *= 0.3
	case OpenHat:
		e.openHatActive, e.openHatEnv = true, vel
	case MidTom:
		e.midTomActive, e.midTomPhase, e.midTomAmpEnv, e.midTomFmEnv = true, 0, vel*gain, 1.0
	case HighTom:
		e.highTomActive, e.highTomPhase, e.highTomAmpEnv, e.highTomFmEnv = true, 0, vel*gain, 1.0
	case Rim:
		e.rimActive, e.rimPhase, e.rimEnv = true, 0, vel
	case Clap:
		e.clapActive = true
		e.clapBursts[0] = vel
		e.clapBursts[1], e.clapBursts[2] = 0, 0
		e.clapWaits[1] = int(0.012 * e.sampleRate)
		e.clapWaits[2] = int(0.026 * e.sampleRate)
	case Cymbal:
		e.cymbalActive, e.cymbalEnv = true, vel
	}
}

func (e *tr606) Process(v VoiceType) float64 {
	var out float64
	switch v {
	case Kick:
		out = e.processFMOneShot(&e.kickPhase, &e.kickAmpEnv, &e.kickFmEnv, &e.kickActive, 60, 0.997, 0.9985)
	case Snare:
		out = e.processSnare()
	case ClosedHat:
		out = e.processMetal(&e.hatEnv, &e.hatActive, 0.6, 0.94)
	case OpenHat:
		out = e.processMetal(&e.openHatEnv, &e.openHatActive, 1.0, 0.975)
	case MidTom:
		out = e.processFMOneShot(&e.midTomPhase, &e.midTomAmpEnv, &e.midTomFmEnv, &e.midTomActive, 160, 0.995, 0.996)
	case HighTom:
		out = e.processFMOneShot(&e.highTomPhase, &e.highTomAmpEnv, &e.highTomFmEnv, &e.highTomActive, 240, 0.995, 0.996)
	case Rim:
		out = e.processRim()
	case Clap:
		out = e.processClap()
	case Cymbal:
		out = e.processCymbal()
	}
	return e.lofi.process(out*e.mainVolume, e.sampleRate)
}

// processFMOneShot is the shared kick/tom topology: a sine carrier
// whose frequency is FM-modulated by its own decaying envelope.
func (e *tr606) processFMOneShot(phase, ampEnv, fmEnv *float64, active *bool, baseFreq, fmDecay, ampDecay float64) float64 {
	if !*active {
		return 0
	}
	freq := baseFreq + baseFreq*3*(*fmEnv)
	*phase += freq / e.sampleRate
	for *phase >= 1 {
		*phase -= 1
	}
	*fmEnv *= fmDecay
	out := math.Sin(2*math.Pi**phase) * *ampEnv
	*ampEnv *= ampDecay
	if *ampEnv < 0.0005 {
		*active = false
	}
	return out
}

func (e *tr606) processSnare() float64 {
	if !e.snareActive {
		return 0
	}
	e.snareTonePhaseA += 280 / e.sampleRate
	e.snareTonePhaseB += 460 / e.sampleRate
	for e.snareTonePhaseA >= 1 {
		e.snareTonePhaseA -= 1
	}
	for e.snareTonePhaseB >= 1 {
		e.snareTonePhaseB -= 1
	}
	tone := math.Sin(2*math.Pi*e.snareTonePhaseA)*0.5 + math.Sin(2*math.Pi*e.snareTonePhaseB)*0.5
	noise := e.snareNoiseLp.process(e.noise(), 0.6)
	out := tone*e.snareToneEnv*0.5 + noise*e.snareNoiseEnv
	e.snareToneEnv *= 0.992
	e.snareNoiseEnv *= 0.95
	if e.snareToneEnv < 0.0005 && e.snareNoiseEnv < 0.0005 {
		e.snareActive = false
	}
	return out
}

func (e *tr606) updateMetalBank() float64 {
	var sum float64
	for i, f := range tr606MetalFreqs {
		e.metalPhases[i] += f / e.sampleRate
		for e.metalPhases[i] >= 1 {
			e.metalPhases[i] -= 1
		}
		sum += squareApprox(e.metalPhases[i])
	}
	return sum / 6
}

func (e *tr606) processMetal(env *float64, active *bool, noiseWeight, decay float64) float64 {
	if !*active {
		return 0
	}
	metal := e.updateMetalBank()
	raw := metal*(1-noiseWeight) + e.noise()*noiseWeight
	hp := raw - e.hatMetalLp.process(raw, 0.5)
	out := hp * *env
	*env *= decay
	if *env < 0.0005 {
		*active = false
	}
	return out
}

func (e *tr606) processRim() float64 {
	if !e.rimActive {
		return 0
	}
	e.rimPhase += 1600 / e.sampleRate
	for e.rimPhase >= 1 {
		e.rimPhase -= 1
	}
	out := squareApprox(e.rimPhase) * e.rimEnv
	e.rimEnv *= 0.88
	if e.rimEnv < 0.0005 {
		e.rimActive = false
	}
	return out
}

func (e *tr606) processClap() float64 {
	if !e.clapActive {
		return 0
	}
	n := e.noise()
	var sum float64
	active := false
	if e.clapBursts[0] > 0.0005 {
		sum += n * e.clapBursts[0]
		e.clapBursts[0] *= 0.88
		active = true
	}
	for i := 1; i < 3; i++ {
		if e.clapWaits[i] > 0 {
			e.clapWaits[i]--
			active = true
			if e.clapWaits[i] == 0 {
				e.clapBursts[i] = 0.85
			}
			continue
		}
		if e.clapBursts[i] > 0.0005 {
			sum += n * e.clapBursts[i]
			e.clapBursts[i] *= 0.88
			active = true
		}
	}
	if !active {
		e.clapActive = false
	}
	return sum
}

func (e *tr606) processCymbal() float64 {
	if !e.cymbalActive {
		return 0
	}
	metal := e.updateMetalBank()
	raw := metal*0.5 + e.noise()*0.5
	out := e.cymbalBandpass.process(raw) * e.cymbalEnv
	e.cymbalEnv *= 0.997
	if e.cymbalEnv < 0.0005 {
		e.cymbalActive = false
	}
	return out
}
