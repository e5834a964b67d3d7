// Package tempodelay implements the tempo-synced delay: a ring buffer
// whose length tracks the transport's BPM in beats, grounded on the
// teacher's internal/effects.Delay but driven by beats instead of a
// fixed millisecond length.
package tempodelay

// Delay is a tempo-synced feedback delay.
type Delay struct {
	buffer       []float64
	writeIndex   int
	sampleRate   float64
	delaySamples int

	beats    float64
	mix      float64
	feedback float64
	enabled  bool
}

// New allocates a delay with a ring sized for maxSeconds at sampleRate.
func New(sampleRate, maxSeconds float64) *Delay {
	size := int(sampleRate*maxSeconds) + 1
	if size < 2 {
		size = 2
	}
	return &Delay{
		buffer:     make([]float64, size),
		sampleRate: sampleRate,
		beats:      0.25,
		mix:        0.3,
		feedback:   0.3,
	}
}

// SetEnabled toggles bypass.
func (d *Delay) SetEnabled(v bool) { d.enabled = v }

// Enabled reports whether the delay is engaged.
func (d *Delay) Enabled() bool { return d.enabled }

// SetMix sets wet mix in [0,1].
func (d *Delay) SetMix(m float64) { d.mix = clamp01(m) }

// SetFeedback sets feedback in [0, 0.95].
func (d *Delay) SetFeedback(fb float64) {
	if fb < 0 {
		fb = 0
	}
	if fb > 0.95 {
		fb = 0.95
	}
	d.feedback = fb
}

// SetBeats sets the delay length in beats (minimum 0.125).
func (d *Delay) SetBeats(beats float64) {
	if beats < 0.125 {
		beats = 0.125
	}
	d.beats = beats
}

// SetBpm recomputes delaySamples from the current beats setting:
// delaySamples = max(1, min(maxDelaySamples-1, (60/bpm)*beats*sampleRate)).
func (d *Delay) SetBpm(bpm float64) {
	if bpm <= 0 {
		bpm = 120
	}
	samples := (60.0 / bpm) * d.beats * d.sampleRate
	maxSamples := len(d.buffer)
	n := int(samples)
	if n < 1 {
		n = 1
	}
	if n > maxSamples-1 {
		n = maxSamples - 1
	}
	d.delaySamples = n
}

// DelaySamples returns the currently computed delay length.
func (d *Delay) DelaySamples() int { return d.delaySamples }

// Process reads the delayed sample, writes the fed-back input, and
// returns the wet/dry mix. When disabled, input passes through
// unchanged.
func (d *Delay) Process(x float64) float64 {
	if !d.enabled {
		return x
	}
	readIndex := d.writeIndex - d.delaySamples
	for readIndex < 0 {
		readIndex += len(d.buffer)
	}
	delayed := d.buffer[readIndex]
	d.buffer[d.writeIndex] = x + delayed*d.feedback
	d.writeIndex = (d.writeIndex + 1) % len(d.buffer)
	return x + delayed*d.mix
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
