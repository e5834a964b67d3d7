// Package audioio adapts the engine's mono int16 audio output to an
// ebiten streaming player, generalizing the teacher's
// internal/audio/stream.go (which streams a stereo float32
// SampleSource) to the groovebox engine's mono int16 output contract.
package audioio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleSource produces mono int16 samples on demand, matching
// Engine.GenerateAudioBuffer's signature.
type SampleSource interface {
	GenerateAudioBuffer(dst []int16)
}

// StreamReader turns a SampleSource into an io.Reader of 16-bit
// stereo PCM, duplicating the mono signal across both channels since
// ebiten's audio context expects interleaved stereo.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	mono   []int16
}

// NewStreamReader wraps source for ebiten playback.
func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Each output frame is 2 channels * 2 bytes = 4 bytes.
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(r.mono) < frames {
		r.mono = make([]int16, frames)
	}
	r.mono = r.mono[:frames]
	r.source.GenerateAudioBuffer(r.mono)

	for i, s := range r.mono {
		off := i * 4
		binary.LittleEndian.PutUint16(p[off:], uint16(s))
		binary.LittleEndian.PutUint16(p[off+2:], uint16(s))
	}
	return frames * 4, nil
}

func (r *StreamReader) Close() error { return nil }

// Player wraps an ebiten audio player over a streaming SampleSource.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextErr  error
	contextRate int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextErr != nil {
		return nil, contextErr
	}
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// NewPlayer starts streaming source's output through ebiten's audio
// backend at sampleRate Hz.
func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayer(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()          { p.player.Play() }
func (p *Player) Pause()         { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Position returns the current playback position.
func (p *Player) Position() time.Duration { return p.player.Position() }

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
