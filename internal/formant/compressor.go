package formant

import "math"

// Compressor is the multi-stage vocal chain: HPF, 4:1 envelope
// compressor with makeup gain, optional presence shelf, soft clip, and
// output smoothing. Grounded on
// original_source/src/dsp/voice_compressor.h.
type Compressor struct {
	hpfZ1 float64

	envelope float64

	presence     bool
	presenceZ1   float64

	outZ1 float64
}

const (
	hpfCoeff      = 0.9786
	attackCoeff   = 0.3 // fast attack
	releaseCoeff  = 0.01 // slow release
	thresholdLin  = 0.3
	ratio         = 4.0
	makeupGain    = 2.8 // ~+9 dB
	presenceCoeff = 0.72
	outLPFAlpha   = 0.6
)

// NewCompressor constructs a VoiceCompressor; presence enables the
// optional high-shelf stage.
func NewCompressor(presence bool) *Compressor {
	return &Compressor{presence: presence}
}

func (c *Compressor) highpass(input float64) float64 {
	out := input - c.hpfZ1
	c.hpfZ1 += (1 - hpfCoeff) * out
	return out
}

func (c *Compressor) presenceShelf(input float64) float64 {
	c.presenceZ1 += presenceCoeff * (input - c.presenceZ1)
	high := input - c.presenceZ1
	return input + high*0.4
}

func softClipCubic(x float64) float64 {
	if x > 1 {
		return 2.0 / 3.0
	}
	if x < -1 {
		return -2.0 / 3.0
	}
	return x - (x*x*x)/3.0
}

// Process compresses one sample.
func (c *Compressor) Process(input float64) float64 {
	filtered := c.highpass(input)

	level := math.Abs(filtered)
	if level > c.envelope {
		c.envelope += attackCoeff * (level - c.envelope)
	} else {
		c.envelope += releaseCoeff * (level - c.envelope)
	}

	gain := 1.0
	if c.envelope > thresholdLin {
		excess := c.envelope - thresholdLin
		compressedExcess := excess / ratio
		targetLevel := thresholdLin + compressedExcess
		if c.envelope > 0 {
			gain = targetLevel / c.envelope
		}
	}

	out := filtered * gain * makeupGain

	if c.presence {
		out = c.presenceShelf(out)
	}

	out = softClipCubic(out)

	c.outZ1 += outLPFAlpha * (out - c.outZ1)
	return c.outZ1
}

// Reset clears all filter and envelope state.
func (c *Compressor) Reset() {
	c.hpfZ1 = 0
	c.envelope = 0
	c.presenceZ1 = 0
	c.outZ1 = 0
}
