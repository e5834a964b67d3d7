package drumengine

import "math"

// tr808 implements the TR-808-style 9-voice roster: sine kick with
// pitch-envelope "boom", tone+noise snare, metallic hat partials,
// multi-burst clap, and compact tom/rim/cymbal one-shots.
type tr808 struct {
	sampleRate float64

	kickPhase, kickFreq, kickBaseFreq   float64
	kickEnvAmp, kickEnvPitch            float64
	kickActive                         bool
	kickAccentGain                     float64

	snarePhaseA, snarePhaseB float64
	snareEnvAmp, snareToneEnv float64
	snareBp, snareLp         biquad
	snareActive              bool
	snareAccentGain          float64
	noiseState               uint32

	hatPhaseA, hatPhaseB float64
	hatEnvAmp            float64
	hatHp                float64
	hatActive            bool
	hatAccentGain        float64

	openHatPhaseA, openHatPhaseB float64
	openHatEnvAmp                float64
	openHatHp                    float64
	openHatActive                bool
	openHatAccentGain             float64

	midTomPhase, midTomEnv   float64
	midTomActive             bool
	highTomPhase, highTomEnv float64
	highTomActive            bool

	rimPhase, rimEnv float64
	rimActive        bool

	clapEnv1, clapEnv2, clapEnv3 float64
	clapWait2, clapWait3         int
	clapActive                   bool
	clapBandpass, clapLowpass    biquad

	cymbalPhaseA, cymbalPhaseB float64
	cymbalEnv                  float64
	cymbalHp                   float64
	cymbalActive               bool

	mainVolume float64
	lofi       *lofiDrumFX
	lofiMode   bool
}

func newTR808(sr float64) *tr808 {
	e := &tr808{sampleRate: sr, kickBaseFreq: 55, mainVolume: 1.0, noiseState: 0xACE1, lofi: newLoFiDrumFX()}
	e.clapBandpass.setBandpass(1100, 2.0, sr)
	e.clapLowpass.setBandpass(2000, 0.7, sr)
	return e
}

func (e *tr808) Reset() {
	*e = *newTR808(e.sampleRate)
}

func (e *tr808) SetSampleRate(sr float64) { e.sampleRate = sr }
func (e *tr808) MainVolume() float64      { return e.mainVolume }
func (e *tr808) SetMainVolume(v float64)  { e.mainVolume = v }
func (e *tr808) SetLoFiMode(en bool)      { e.lofiMode = en; e.lofi.setEnabled(en) }
func (e *tr808) SetLoFiAmount(a float64)  { e.lofi.setAmount(a) }

func (e *tr808) noise() float64 {
	e.noiseState = e.noiseState*1664525 + 1013904223
	return float64(int32(e.noiseState)) / 2147483648.0
}

func accentGain(accent bool) float64 {
	if accent {
		return 1.3
	}
	return 1.0
}

func (e *tr808) Trigger(v VoiceType, accent bool, velocity int) {
	vel := float64(velocity) / 100.0
	switch v {
	case Kick:
		e.kickActive = true
		e.kickPhase = 0
		e.kickEnvAmp = 1.0 * vel
		e.kickEnvPitch = 1.0
		e.kickAccentGain = accentGain(accent)
	case Snare:
		e.snareActive = true
		e.snarePhaseA, e.snarePhaseB = 0, 0
		e.snareEnvAmp = vel
		e.snareToneEnv = 1.0
		e.snareAccentGain = accentGain(accent)
	case ClosedHat:
		e.hatActive = true
		e.hatEnvAmp = vel
		e.hatAccentGain = accentGain(accent)
		e.openHatEnvAmp *= 0.3 // closed-hat chokes open-hat tail
	case OpenHat:
		e.openHatActive = true
		e.openHatEnvAmp = vel
		e.openHatAccentGain = accentGain(accent)
	case MidTom:
		e.midTomActive = true
		e.midTomPhase = 0
		e.midTomEnv = vel
	case HighTom:
		e.highTomActive = true
		e.highTomPhase = 0
		e.highTomEnv = vel
	case Rim:
		e.rimActive = true
		e.rimPhase = 0
		e.rimEnv = vel
	case Clap:
		e.clapActive = true
		e.clapEnv1 = vel
		e.clapEnv2, e.clapEnv3 = 0, 0
		e.clapWait2 = int(0.010 * e.sampleRate)
		e.clapWait3 = int(0.022 * e.sampleRate)
	case Cymbal:
		e.cymbalActive = true
		e.cymbalEnv = vel
	}
}

func (e *tr808) Process(v VoiceType) float64 {
	var out float64
	switch v {
	case Kick:
		out = e.processKick()
	case Snare:
		out = e.processSnare()
	case ClosedHat:
		out = e.processHat()
	case OpenHat:
		out = e.processOpenHat()
	case MidTom:
		out = e.processTom(&e.midTomPhase, &e.midTomEnv, &e.midTomActive, 180)
	case HighTom:
		out = e.processTom(&e.highTomPhase, &e.highTomEnv, &e.highTomActive, 260)
	case Rim:
		out = e.processRim()
	case Clap:
		out = e.processClap()
	case Cymbal:
		out = e.processCymbal()
	}
	return e.lofi.process(out*e.mainVolume, e.sampleRate)
}

func (e *tr808) processKick() float64 {
	if !e.kickActive {
		return 0
	}
	e.kickFreq = e.kickBaseFreq + 170*(e.kickEnvPitch*e.kickEnvPitch)
	e.kickEnvPitch *= 0.997
	e.kickPhase += e.kickFreq / e.sampleRate
	for e.kickPhase >= 1 {
		e.kickPhase -= 1
	}
	sine := math.Sin(2 * math.Pi * e.kickPhase)
	click := 0.0
	if e.kickEnvPitch > 0.9 {
		click = softClip808(sine*3) * 0.3
	}
	out := (sine + click) * e.kickEnvAmp * e.kickAccentGain
	e.kickEnvAmp *= 0.9994
	if e.kickEnvAmp < 0.0005 {
		e.kickActive = false
	}
	if e.kickAccentGain > 1.1 {
		out = softClip808(out * 1.4)
	}
	return out
}

func (e *tr808) processSnare() float64 {
	if !e.snareActive {
		return 0
	}
	e.snarePhaseA += 330 / e.sampleRate
	e.snarePhaseB += 180 / e.sampleRate
	for e.snarePhaseA >= 1 {
		e.snarePhaseA -= 1
	}
	for e.snarePhaseB >= 1 {
		e.snarePhaseB -= 1
	}
	tone := math.Sin(2*math.Pi*e.snarePhaseA)*0.6 + math.Sin(2*math.Pi*e.snarePhaseB)*0.4
	noise := e.snareBp.process(e.noise())
	out := (tone*e.snareToneEnv*0.5 + noise*e.snareEnvAmp) * e.snareAccentGain
	e.snareToneEnv *= 0.993
	e.snareEnvAmp *= 0.996
	if e.snareEnvAmp < 0.0005 {
		e.snareActive = false
	}
	return out
}

func (e *tr808) processHatVoice(phaseA, phaseB *float64, env *float64, active *bool, hp *float64, f1, f2 float64, accentGain float64) float64 {
	if !*active {
		return 0
	}
	*phaseA += f1 / e.sampleRate
	*phaseB += f2 / e.sampleRate
	for *phaseA >= 1 {
		*phaseA -= 1
	}
	for *phaseB >= 1 {
		*phaseB -= 1
	}
	metallic := squareApprox(*phaseA)*0.5 + squareApprox(*phaseB)*0.5
	n := e.noise() * 0.3
	raw := metallic + n
	*hp += 0.5 * (raw - *hp)
	out := (raw - *hp) * *env * accentGain
	*env *= 0.95
	if *env < 0.0005 {
		*active = false
	}
	return out
}

func (e *tr808) processHat() float64 {
	return e.processHatVoice(&e.hatPhaseA, &e.hatPhaseB, &e.hatEnvAmp, &e.hatActive, &e.hatHp, 6200, 7400, e.hatAccentGain)
}

func (e *tr808) processOpenHat() float64 {
	return e.processHatVoice(&e.openHatPhaseA, &e.openHatPhaseB, &e.openHatEnvAmp, &e.openHatActive, &e.openHatHp, 5100, 6600, e.openHatAccentGain)
}

func (e *tr808) processTom(phase, env *float64, active *bool, freq float64) float64 {
	if !*active {
		return 0
	}
	*phase += freq / e.sampleRate
	for *phase >= 1 {
		*phase -= 1
	}
	out := math.Sin(2*math.Pi**phase) * *env
	*env *= 0.995
	if *env < 0.0005 {
		*active = false
	}
	return out
}

func (e *tr808) processRim() float64 {
	if !e.rimActive {
		return 0
	}
	e.rimPhase += 1800 / e.sampleRate
	for e.rimPhase >= 1 {
		e.rimPhase -= 1
	}
	out := squareApprox(e.rimPhase) * e.rimEnv
	e.rimEnv *= 0.92
	if e.rimEnv < 0.0005 {
		e.rimActive = false
	}
	return out
}

func (e *tr808) processClap() float64 {
	if !e.clapActive {
		return 0
	}
	n := e.noise()
	var burst float64
	if e.clapEnv1 > 0.0005 {
		burst += n * e.clapEnv1
		e.clapEnv1 *= 0.90
	}
	if e.clapWait2 > 0 {
		e.clapWait2--
		if e.clapWait2 == 0 {
			e.clapEnv2 = 0.8
		}
	} else if e.clapEnv2 > 0.0005 {
		burst += n * e.clapEnv2
		e.clapEnv2 *= 0.90
	}
	if e.clapWait3 > 0 {
		e.clapWait3--
		if e.clapWait3 == 0 {
			e.clapEnv3 = 1.0
		}
	} else if e.clapEnv3 > 0.0003 {
		burst += n * e.clapEnv3
		e.clapEnv3 *= 0.9965 // 120ms-ish tail
	}
	out := e.clapLowpass.process(e.clapBandpass.process(burst))
	if e.clapEnv1 < 0.0005 && e.clapEnv2 < 0.0005 && e.clapEnv3 < 0.0003 && e.clapWait2 == 0 && e.clapWait3 == 0 {
		e.clapActive = false
	}
	return out
}

func (e *tr808) processCymbal() float64 {
	if !e.cymbalActive {
		return 0
	}
	e.cymbalPhaseA += 4200 / e.sampleRate
	e.cymbalPhaseB += 5800 / e.sampleRate
	for e.cymbalPhaseA >= 1 {
		e.cymbalPhaseA -= 1
	}
	for e.cymbalPhaseB >= 1 {
		e.cymbalPhaseB -= 1
	}
	metallic := squareApprox(e.cymbalPhaseA)*0.5 + squareApprox(e.cymbalPhaseB)*0.5
	raw := metallic + e.noise()*0.4
	e.cymbalHp += 0.3 * (raw - e.cymbalHp)
	out := (raw - e.cymbalHp) * e.cymbalEnv
	e.cymbalEnv *= 0.998
	if e.cymbalEnv < 0.0005 {
		e.cymbalActive = false
	}
	return out
}

func squareApprox(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func softClip808(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x - (x*x*x)/3
}
