package tape

import "math"

// Mode is the TapeLooper mode machine state.
type Mode int

const (
	Stop Mode = iota
	Rec
	Dub
	Play
)

const (
	maxSeconds     = 8
	stutterFrames  = 512
	crossfadeFrames = 256
)

// Looper is an 8-second mono ring buffer with a Stop/Rec/Dub/Play mode
// machine, speed control, stutter, and eject.
type Looper struct {
	sampleRate float64
	buffer     []int16
	maxSamples int
	length     int
	playhead   float64

	mode            Mode
	speed           uint8
	speedMultiplier float64

	stutterActive bool
	stutterStart  float64

	volume float64
	fadeEnv float64
}

// NewLooper allocates a looper buffer for sampleRate, sized for maxSeconds.
func NewLooper(sampleRate float64) *Looper {
	l := &Looper{
		sampleRate:      sampleRate,
		maxSamples:      int(sampleRate * maxSeconds),
		speedMultiplier: 1.0,
		volume:          1.0,
	}
	l.buffer = make([]int16, l.maxSamples)
	return l
}

// Mode returns the current mode.
func (l *Looper) Mode() Mode { return l.mode }

// SetMode transitions the mode machine; must be called from the UI
// thread under the audio guard.
func (l *Looper) SetMode(m Mode) {
	if m == Rec && l.length == 0 {
		l.playhead = 0
	}
	if (l.mode == Rec || l.mode == Dub) && m != Rec && m != Dub && l.length == 0 {
		l.length = int(l.playhead)
	}
	l.mode = m
}

// SetSpeed sets 0=0.5x, 1=1.0x, 2=2.0x.
func (l *Looper) SetSpeed(speed uint8) {
	l.speed = speed
	switch speed {
	case 0:
		l.speedMultiplier = 0.5
	case 2:
		l.speedMultiplier = 2.0
	default:
		l.speedMultiplier = 1.0
	}
}

// Speed returns the current speed code.
func (l *Looper) Speed() uint8 { return l.speed }

// SetStutter freezes (true) or releases (false) the playhead in a
// small sub-loop window.
func (l *Looper) SetStutter(active bool) {
	if active && !l.stutterActive {
		l.stutterStart = l.playhead
	}
	l.stutterActive = active
}

// StutterActive reports whether stutter is engaged.
func (l *Looper) StutterActive() bool { return l.stutterActive }

// Eject fully resets the looper to a clean state.
func (l *Looper) Eject() {
	l.length = 0
	l.playhead = 0
	l.mode = Stop
	l.stutterActive = false
	l.speed = 1
	l.speedMultiplier = 1.0
	for i := range l.buffer {
		l.buffer[i] = 0
	}
}

// Clear wipes the loop contents but keeps mode/speed settings.
func (l *Looper) Clear() {
	l.length = 0
	l.playhead = 0
	for i := range l.buffer {
		l.buffer[i] = 0
	}
}

// SetVolume sets output volume.
func (l *Looper) SetVolume(v float64) { l.volume = v }

// Volume returns the current output volume.
func (l *Looper) Volume() float64 { return l.volume }

// PlayheadProgress returns 0..1 progress through the loop.
func (l *Looper) PlayheadProgress() float64 {
	if l.length == 0 {
		return 0
	}
	return l.playhead / float64(l.length)
}

// LoopLengthSeconds returns the loop length in seconds.
func (l *Looper) LoopLengthSeconds() float64 {
	return float64(l.length) / l.sampleRate
}

// HasLoop reports whether a loop has been recorded.
func (l *Looper) HasLoop() bool { return l.length > 0 }

// LoopLengthSamples returns the loop length in samples.
func (l *Looper) LoopLengthSamples() int { return l.length }

func (l *Looper) readInterpolated(pos float64) float64 {
	if l.length == 0 {
		return 0
	}
	for pos < 0 {
		pos += float64(l.length)
	}
	for pos >= float64(l.length) {
		pos -= float64(l.length)
	}
	i0 := int(pos) % l.length
	i1 := (i0 + 1) % l.length
	frac := pos - math.Floor(pos)
	s0 := float64(l.buffer[i0]) / 32768.0
	s1 := float64(l.buffer[i1]) / 32768.0
	return s0*(1-frac) + s1*frac
}

func (l *Looper) writeSample(pos int, value float64) {
	if value > 1 {
		value = 1
	}
	if value < -1 {
		value = -1
	}
	l.buffer[pos] = int16(value * 32767)
}

// Process records input (when Rec/Dub), advances the playhead (when
// Play/Dub), and writes the looper's output into loopPart.
func (l *Looper) Process(input float64, loopPart *float64) {
	*loopPart = 0

	switch l.mode {
	case Rec:
		if l.length == 0 {
			pos := int(l.playhead)
			if pos < l.maxSamples {
				l.writeSample(pos, input)
				l.playhead++
			} else {
				l.length = l.maxSamples
				l.mode = Play
			}
		}
		return
	case Dub:
		if l.length > 0 {
			pos := int(l.playhead) % l.length
			existing := l.readInterpolated(float64(pos))
			l.writeSample(pos, softClipTape(existing+input))
		}
	case Play:
		// read-only
	case Stop:
		return
	}

	if l.length == 0 {
		return
	}

	sample := l.readInterpolated(l.playhead)

	if l.stutterActive {
		window := float64(stutterFrames) / l.speedMultiplier
		rel := l.playhead - l.stutterStart
		for rel < 0 {
			rel += float64(l.length)
		}
		rel = math.Mod(rel, window)
		sample = l.readInterpolated(l.stutterStart + rel)
		l.playhead += l.speedMultiplier
	} else {
		l.playhead += l.speedMultiplier
	}

	for l.playhead >= float64(l.length) {
		l.playhead -= float64(l.length)
	}
	for l.playhead < 0 {
		l.playhead += float64(l.length)
	}

	*loopPart = sample * l.volume
}

func softClipTape(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x - (x*x*x)/3
}
