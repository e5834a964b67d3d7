// Package formant implements the formant speech voice: three parallel
// bandpass filters excited by a pulse train (voiced) or noise
// (unvoiced), driven by a phoneme table with linear morphing between
// phonemes and a per-phrase text walker. Grounded on
// original_source/src/dsp/formant_synth.h.
package formant

import (
	"math"
	"sync/atomic"
)

const (
	numCustomPhrases = 16
	maxPhraseLength  = 32
	vibratoHz        = 5.5
)

// bandpassFilter is a biquad bandpass tuned for one formant.
type bandpassFilter struct {
	x1, x2, y1, y2     float64
	a0, a1, a2, b1, b2 float64
}

func (f *bandpassFilter) setParams(freq, bandwidth, gain, sampleRate float64) {
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) * math.Sinh(math.Ln2/2*bandwidth*w0/math.Sin(w0))
	if alpha != alpha || alpha == 0 {
		alpha = 0.01
	}
	cosw0 := math.Cos(w0)
	b0 := alpha * gain
	b2 := -alpha * gain
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	f.a0 = b0 / a0
	f.a1 = 0
	f.a2 = b2 / a0
	f.b1 = a1 / a0
	f.b2 = a2 / a0
}

func (f *bandpassFilter) process(input float64) float64 {
	output := f.a0*input + f.a1*f.x1 + f.a2*f.x2 - f.b1*f.y1 - f.b2*f.y2
	f.x2, f.x1 = f.x1, input
	f.y2, f.y1 = f.y1, output
	return output
}

func (f *bandpassFilter) reset() { f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0 }

// Synth is the formant speech voice.
type Synth struct {
	sampleRate float64
	pitch      float64
	phase      float64
	speed      float64
	robotness  float64
	volume     float64

	current, target Phoneme
	morphProgress   float64
	morphSamples    float64
	morphTotal      float64

	formants [3]bandpassFilter

	active, speaking bool
	text             []byte
	textPos          int
	phonemeRemaining float64

	vibratoPhase float64

	customPhrases [numCustomPhrases]string

	noiseState   uint32
	currentLevel atomic.Uint64 // math.Float64bits of the running level
}

// New constructs a formant synth at sampleRate (nominal 22050 Hz).
func New(sampleRate float64) *Synth {
	s := &Synth{sampleRate: sampleRate, pitch: 120, speed: 1.0, volume: 1.0, noiseState: 0x5EED}
	s.current = lookupPhoneme(' ')
	s.target = s.current
	s.updateFormants()
	return s
}

// Reset clears all runtime state.
func (s *Synth) Reset() {
	s.phase = 0
	s.active = false
	s.speaking = false
	s.textPos = 0
	for i := range s.formants {
		s.formants[i].reset()
	}
}

func (s *Synth) SetPitch(hz float64)       { s.pitch = hz }
func (s *Synth) SetSpeed(mult float64)     { s.speed = mult }
func (s *Synth) SetRobotness(amount float64) { s.robotness = amount }
func (s *Synth) SetVolume(vol float64)     { s.volume = vol }
func (s *Synth) Pitch() float64            { return s.pitch }
func (s *Synth) Speed() float64            { return s.speed }
func (s *Synth) Robotness() float64        { return s.robotness }
func (s *Synth) Volume() float64           { return s.volume }
func (s *Synth) IsActive() bool            { return s.active }
func (s *Synth) IsSpeaking() bool          { return s.speaking }

// CurrentLevel returns the voice's last metered output level (atomic,
// UI-readable without the audio guard — a "benign" field per §5).
func (s *Synth) CurrentLevel() float64 {
	return math.Float64frombits(s.currentLevel.Load())
}

// SetPhoneme morphs all three formants from current to target over
// morphTimeMs of samples.
func (s *Synth) SetPhoneme(symbol byte, morphTimeMs float64) {
	s.current = s.interpolatedPhoneme()
	s.target = lookupPhoneme(symbol)
	s.morphTotal = morphTimeMs * s.sampleRate * 0.001
	if s.morphTotal < 1 {
		s.morphTotal = 1
	}
	s.morphSamples = s.morphTotal
	s.morphProgress = 0
	s.active = true
}

func (s *Synth) interpolatedPhoneme() Phoneme {
	t := s.morphProgress
	var out Phoneme
	out.Symbol = s.target.Symbol
	out.Voiced = s.target.Voiced
	for i := 0; i < 3; i++ {
		out.Formant.Freq[i] = lerp(s.current.Formant.Freq[i], s.target.Formant.Freq[i], t)
		out.Formant.Amp[i] = lerp(s.current.Formant.Amp[i], s.target.Formant.Amp[i], t)
		out.Formant.BW[i] = lerp(s.current.Formant.BW[i], s.target.Formant.BW[i], t)
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func (s *Synth) updateFormants() {
	p := s.interpolatedPhoneme()
	for i := 0; i < 3; i++ {
		s.formants[i].setParams(p.Formant.Freq[i], p.Formant.BW[i], p.Formant.Amp[i], s.sampleRate)
	}
}

// Speak walks text as a phoneme sequence.
func (s *Synth) Speak(text string) {
	s.text = []byte(text)
	s.textPos = 0
	s.speaking = len(s.text) > 0
	if s.speaking {
		s.beginPhonemeAt(0)
	}
}

// Stop halts speech immediately.
func (s *Synth) Stop() {
	s.speaking = false
	s.active = false
}

func (s *Synth) beginPhonemeAt(i int) {
	sym := s.text[i]
	ph := lookupPhoneme(sym)
	s.SetPhoneme(sym, 30)
	s.phonemeRemaining = ph.Duration * s.sampleRate * 0.001 / s.speed
}

func (s *Synth) advanceText() {
	s.textPos++
	if s.textPos >= len(s.text) {
		s.speaking = false
		return
	}
	s.beginPhonemeAt(s.textPos)
}

func (s *Synth) fastRand() float64 {
	s.noiseState = s.noiseState*1664525 + 1013904223
	return float64(int32(s.noiseState)) / 2147483648.0
}

func (s *Synth) generateExcitation(voiced bool) float64 {
	if !voiced {
		return s.fastRand()
	}
	vibrato := 1.0
	if s.robotness < 1.0 {
		s.vibratoPhase += vibratoHz / s.sampleRate
		for s.vibratoPhase >= 1 {
			s.vibratoPhase -= 1
		}
		vibrato = 1.0 + math.Sin(2*math.Pi*s.vibratoPhase)*0.02*(1-s.robotness)
	}
	freq := s.pitch * vibrato
	s.phase += freq / s.sampleRate
	for s.phase >= 1 {
		s.phase -= 1
	}
	// simple bandlimited-ish pulse: narrow positive spike each cycle
	if s.phase < 0.05 {
		return 1.0 - s.phase/0.05
	}
	return 0
}

// Process renders one sample.
func (s *Synth) Process() float64 {
	if !s.active {
		s.currentLevel.Store(0)
		return 0
	}

	if s.morphSamples > 0 {
		s.morphSamples--
		s.morphProgress = 1.0 - s.morphSamples/s.morphTotal
		s.updateFormants()
	}

	if s.speaking {
		s.phonemeRemaining--
		if s.phonemeRemaining <= 0 {
			s.advanceText()
		}
	}

	p := s.interpolatedPhoneme()
	excitation := s.generateExcitation(p.Voiced)

	var out float64
	for i := 0; i < 3; i++ {
		out += s.formants[i].process(excitation)
	}
	out *= s.volume * 0.3

	level := math.Abs(out)
	s.currentLevel.Store(math.Float64bits(level))

	if !s.speaking && s.morphSamples <= 0 && p.Formant.Amp == (Formant{}).Amp {
		s.active = false
	}
	return out
}

// Render fills every slot of buffer with a rendered sample.
func (s *Synth) Render(buffer []float64) {
	for i := range buffer {
		buffer[i] = s.Process()
	}
}

// SetCustomPhrase stores phrase (truncated to maxPhraseLength) at index.
func (s *Synth) SetCustomPhrase(index int, phrase string) {
	if index < 0 || index >= numCustomPhrases {
		return
	}
	if len(phrase) > maxPhraseLength {
		phrase = phrase[:maxPhraseLength]
	}
	s.customPhrases[index] = phrase
}

// CustomPhrase returns the phrase stored at index, or "".
func (s *Synth) CustomPhrase(index int) string {
	if index < 0 || index >= numCustomPhrases {
		return ""
	}
	return s.customPhrases[index]
}

// SpeakCustomPhrase speaks the phrase stored at index.
func (s *Synth) SpeakCustomPhrase(index int) {
	s.Speak(s.CustomPhrase(index))
}
