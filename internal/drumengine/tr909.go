package drumengine

import "math"

// tr909 implements the TR-909-style roster: a brighter, FM-biased kick
// with a click transient, a longer snare body, brighter noise beds on
// the hats/cymbal, and a 6-micro-burst clap with a long tail.
type tr909 struct {
	sampleRate float64

	kickPhase, kickFreq, kickBaseFreq float64
	kickEnvAmp, kickEnvPitch          float64
	kickClickEnv                      float64
	kickActive                       bool
	kickAccentGain                   float64

	snarePhaseA, snarePhaseB  float64
	snareEnvAmp, snareToneEnv float64
	snareBp                   biquad
	snareActive               bool
	snareAccentGain           float64

	hatPhaseA, hatPhaseB float64
	hatEnvAmp            float64
	hatHp                float64
	hatActive            bool

	openHatPhaseA, openHatPhaseB float64
	openHatEnvAmp                float64
	openHatHp                    float64
	openHatActive                bool

	midTomPhase, midTomEnv   float64
	midTomActive             bool
	highTomPhase, highTomEnv float64
	highTomActive            bool

	rimPhase, rimEnv float64
	rimActive        bool

	clapBursts   [6]float64
	clapWaits    [6]int
	clapActive   bool
	clapBandpass biquad

	cymbalPhaseA, cymbalPhaseB float64
	cymbalEnv                  float64
	cymbalHp                   float64
	cymbalActive               bool

	noiseState uint32
	mainVolume float64
	lofi       *lofiDrumFX
}

func newTR909(sr float64) *tr909 {
	e := &tr909{sampleRate: sr, kickBaseFreq: 58, mainVolume: 1.0, noiseState: 0xF00D, lofi: newLoFiDrumFX()}
	e.clapBandpass.setBandpass(1400, 2.4, sr)
	for i := range e.clapWaits {
		e.clapWaits[i] = int(float64(i) * 0.008 * sr)
	}
	return e
}

func (e *tr909) Reset()                     { *e = *newTR909(e.sampleRate) }
func (e *tr909) SetSampleRate(sr float64)   { e.sampleRate = sr }
func (e *tr909) MainVolume() float64        { return e.mainVolume }
func (e *tr909) SetMainVolume(v float64)    { e.mainVolume = v }
func (e *tr909) SetLoFiMode(en bool)        { e.lofi.setEnabled(en) }
func (e *tr909) SetLoFiAmount(a float64)    { e.lofi.setAmount(a) }

func (e *tr909) noise() float64 {
	e.noiseState = e.noiseState*1664525 + 1013904223
	return float64(int32(e.noiseState)) / 2147483648.0
}

func (e *tr909) Trigger(v VoiceType, accent bool, velocity int) {
	vel := float64(velocity) / 100.0
	switch v {
	case Kick:
		e.kickActive = true
		e.kickPhase = 0
		e.kickEnvAmp = vel
		e.kickEnvPitch = 1.0
		e.kickClickEnv = 1.0
		e.kickAccentGain = accentGain(accent)
	case Snare:
		e.snareActive = true
		e.snareEnvAmp = vel
		e.snareToneEnv = 1.0
		e.snareAccentGain = accentGain(accent)
	case ClosedHat:
		e.hatActive = true
		e.hatEnvAmp = vel
		e.openHatEnvAmp *= 0.3
	case OpenHat:
		e.openHatActive = true
		e.openHatEnvAmp = vel
	case MidTom:
		e.midTomActive, e.midTomPhase, e.midTomEnv = true, 0, vel
	case HighTom:
		e.highTomActive, e.highTomPhase, e.highTomEnv = true, 0, vel
	case Rim:
		e.rimActive, e.rimPhase, e.rimEnv = true, 0, vel
	case Clap:
		e.clapActive = true
		e.clapBursts[0] = vel
		for i := 1; i < 6; i++ {
			e.clapBursts[i] = 0
		}
	case Cymbal:
		e.cymbalActive, e.cymbalEnv = true, vel
	}
}

func (e *tr909) Process(v VoiceType) float64 {
	var out float64
	switch v {
	case Kick:
		out = e.processKick()
	case Snare:
		out = e.processSnare()
	case ClosedHat:
		out = e.processHatVoice(&e.hatPhaseA, &e.hatPhaseB, &e.hatEnvAmp, &e.hatActive, &e.hatHp, 7200, 8600)
	case OpenHat:
		out = e.processHatVoice(&e.openHatPhaseA, &e.openHatPhaseB, &e.openHatEnvAmp, &e.openHatActive, &e.openHatHp, 5800, 7400)
	case MidTom:
		out = e.processTom(&e.midTomPhase, &e.midTomEnv, &e.midTomActive, 200)
	case HighTom:
		out = e.processTom(&e.highTomPhase, &e.highTomEnv, &e.highTomActive, 290)
	case Rim:
		out = e.processRim()
	case Clap:
		out = e.processClap()
	case Cymbal:
		out = e.processCymbal()
	}
	return e.lofi.process(out*e.mainVolume, e.sampleRate)
}

func (e *tr909) processKick() float64 {
	if !e.kickActive {
		return 0
	}
	e.kickFreq = e.kickBaseFreq + 210*(e.kickEnvPitch*e.kickEnvPitch)
	e.kickEnvPitch *= 0.9965
	e.kickPhase += e.kickFreq / e.sampleRate
	for e.kickPhase >= 1 {
		e.kickPhase -= 1
	}
	body := math.Sin(2 * math.Pi * e.kickPhase)
	click := e.kickClickEnv * e.noise() * 0.5
	e.kickClickEnv *= 0.85
	out := (body*1.1 + click) * e.kickEnvAmp * e.kickAccentGain
	e.kickEnvAmp *= 0.9992
	if e.kickEnvAmp < 0.0005 {
		e.kickActive = false
	}
	return softClip808(out)
}

func (e *tr909) processSnare() float64 {
	if !e.snareActive {
		return 0
	}
	e.snarePhaseA += 340 / e.sampleRate
	e.snarePhaseB += 190 / e.sampleRate
	for e.snarePhaseA >= 1 {
		e.snarePhaseA -= 1
	}
	for e.snarePhaseB >= 1 {
		e.snarePhaseB -= 1
	}
	tone := math.Sin(2*math.Pi*e.snarePhaseA)*0.5 + math.Sin(2*math.Pi*e.snarePhaseB)*0.5
	noise := e.snareBp.process(e.noise())
	out := (tone*e.snareToneEnv*0.4 + noise*e.snareEnvAmp*1.2) * e.snareAccentGain
	e.snareToneEnv *= 0.994
	e.snareEnvAmp *= 0.9975 // longer body than the 808
	if e.snareEnvAmp < 0.0004 {
		e.snareActive = false
	}
	return out
}

func (e *tr909) processHatVoice(phaseA, phaseB *float64, env *float64, active *bool, hp *float64, f1, f2 float64) float64 {
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
	raw := metallic*0.7 + e.noise()*0.5 // brighter noise bed than the 808
	*hp += 0.55 * (raw - *hp)
	out := (raw - *hp) * *env
	*env *= 0.955
	if *env < 0.0005 {
		*active = false
	}
	return out
}

func (e *tr909) processTom(phase, env *float64, active *bool, freq float64) float64 {
	if !*active {
		return 0
	}
	*phase += freq / e.sampleRate
	for *phase >= 1 {
		*phase -= 1
	}
	out := math.Sin(2*math.Pi**phase) * *env
	*env *= 0.996
	if *env < 0.0005 {
		*active = false
	}
	return out
}

func (e *tr909) processRim() float64 {
	if !e.rimActive {
		return 0
	}
	e.rimPhase += 2100 / e.sampleRate
	for e.rimPhase >= 1 {
		e.rimPhase -= 1
	}
	out := squareApprox(e.rimPhase) * e.rimEnv
	e.rimEnv *= 0.90
	if e.rimEnv < 0.0005 {
		e.rimActive = false
	}
	return out
}

func (e *tr909) processClap() float64 {
	if !e.clapActive {
		return 0
	}
	n := e.noise()
	var sum float64
	anyActive := false
	for i := 0; i < 6; i++ {
		if e.clapWaits[i] > 0 {
			e.clapWaits[i]--
			anyActive = true
			continue
		}
		if i > 0 && e.clapBursts[i] == 0 && e.clapBursts[0] > 0 {
			e.clapBursts[i] = 0.9
		}
		decay := 0.90
		if i == 5 {
			decay = 0.997 // long tail on the final burst
		}
		if e.clapBursts[i] > 0.0003 {
			sum += n * e.clapBursts[i]
			e.clapBursts[i] *= decay
			anyActive = true
		}
	}
	out := e.clapBandpass.process(sum)
	if !anyActive {
		e.clapActive = false
	}
	return out
}

func (e *tr909) processCymbal() float64 {
	if !e.cymbalActive {
		return 0
	}
	e.cymbalPhaseA += 4600 / e.sampleRate
	e.cymbalPhaseB += 6400 / e.sampleRate
	for e.cymbalPhaseA >= 1 {
		e.cymbalPhaseA -= 1
	}
	for e.cymbalPhaseB >= 1 {
		e.cymbalPhaseB -= 1
	}
	metallic := squareApprox(e.cymbalPhaseA)*0.5 + squareApprox(e.cymbalPhaseB)*0.5
	raw := metallic*0.6 + e.noise()*0.6
	e.cymbalHp += 0.35 * (raw - e.cymbalHp)
	out := (raw - e.cymbalHp) * e.cymbalEnv
	e.cymbalEnv *= 0.9985
	if e.cymbalEnv < 0.0005 {
		e.cymbalActive = false
	}
	return out
}
