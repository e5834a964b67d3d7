package formant

// VocalMixer ducks the music bed under the speaking voice. Grounded on
// original_source/src/dsp/vocal_mixer.h.
type VocalMixer struct {
	duckAmount float64
	voiceGain  float64
}

// NewVocalMixer constructs a VocalMixer with the reference's voice
// trim (~0.7, the voice sits lower than the instruments by default).
func NewVocalMixer() *VocalMixer {
	return &VocalMixer{voiceGain: 0.7}
}

// SetVoiceGain overrides the default voice trim.
func (m *VocalMixer) SetVoiceGain(g float64) { m.voiceGain = g }

// Mix blends musicSample and voiceSample for one audio block, given
// whether the formant voice is currently speaking. Call once per
// processing block (not per sample) — the duck envelope steps by a
// fixed amount per call, matching the reference's block-rate update.
func (m *VocalMixer) Mix(musicSample, voiceSample float64, speaking bool) float64 {
	if speaking {
		m.duckAmount += 0.05
	} else {
		m.duckAmount -= 0.02
	}
	if m.duckAmount > 1 {
		m.duckAmount = 1
	}
	if m.duckAmount < 0 {
		m.duckAmount = 0
	}
	musicGain := 1.0 - m.duckAmount*m.duckAmount
	return musicSample*musicGain + voiceSample*m.voiceGain
}

// DuckAmount returns the current ducking envelope value, 0..1.
func (m *VocalMixer) DuckAmount() float64 { return m.duckAmount }

// Reset clears the ducking envelope.
func (m *VocalMixer) Reset() { m.duckAmount = 0 }
