// Package guard implements the UI<->audio-thread concurrency
// protocol: a single mutex (AudioGuard) that both sides acquire around
// state mutation/snapshot, seq-lock-style perf counters the UI can
// read lock-free, and a double-buffered waveform for visualization.
// Grounded on the teacher's player.go, which guards its engine with a
// plain sync.Mutex and uses sync/atomic for lock-free flags.
package guard

import (
	"sync"
	"sync/atomic"
)

// AudioGuard is the lock/unlock pair the UI thread wraps around any
// mutation of pattern/scene/engine state, and the audio thread
// acquires around the step-advance critical section.
type AudioGuard struct {
	mu sync.Mutex
}

// Lock acquires the guard. No allocations must happen between Lock and
// Unlock on the audio thread — pool growth runs through preallocated
// arenas instead.
func (g *AudioGuard) Lock() { g.mu.Lock() }

// Unlock releases the guard.
func (g *AudioGuard) Unlock() { g.mu.Unlock() }

// WithLock runs fn while holding the guard.
func (g *AudioGuard) WithLock(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}

// PerfCounters holds a seq-lock-guarded snapshot of audio-callback
// timing stats. The audio thread is the sole writer; UI readers retry
// on an odd sequence to avoid tearing without ever blocking the audio
// thread.
type PerfCounters struct {
	seq               atomic.Uint64
	callbackSamples   uint64
	peakSamples       uint64
	underrunCount     uint64
	lastBlockNanos    uint64
}

// BeginUpdate must be called before writing any counter field; it
// publishes an odd sequence number so concurrent readers know to
// retry.
func (p *PerfCounters) BeginUpdate() {
	p.seq.Add(1)
}

// EndUpdate publishes the completed write with an even sequence
// number.
func (p *PerfCounters) EndUpdate() {
	p.seq.Add(1)
}

// Update performs one seq-lock-guarded write of the counters.
func (p *PerfCounters) Update(callbackSamples, peakSamples, underrunCount, blockNanos uint64) {
	p.BeginUpdate()
	p.callbackSamples = callbackSamples
	if peakSamples > p.peakSamples {
		p.peakSamples = peakSamples
	}
	p.underrunCount = underrunCount
	p.lastBlockNanos = blockNanos
	p.EndUpdate()
}

// PerfSnapshot is a torn-free copy of PerfCounters for UI consumption.
type PerfSnapshot struct {
	CallbackSamples uint64
	PeakSamples     uint64
	UnderrunCount   uint64
	LastBlockNanos  uint64
}

// Read retries until it observes a stable (even-sequenced) snapshot.
func (p *PerfCounters) Read() PerfSnapshot {
	for {
		seq1 := p.seq.Load()
		if seq1&1 != 0 {
			continue
		}
		snap := PerfSnapshot{
			CallbackSamples: p.callbackSamples,
			PeakSamples:     p.peakSamples,
			UnderrunCount:   p.underrunCount,
			LastBlockNanos:  p.lastBlockNanos,
		}
		seq2 := p.seq.Load()
		if seq1 == seq2 {
			return snap
		}
	}
}

// WaveformSize is the fixed sample count carried by each waveform
// buffer (enough for a few cycles of visualization at typical BPM).
const WaveformSize = 512

// Waveform double-buffers a rolling int16 window for scope-style UI
// rendering: the audio thread writes into the inactive buffer, then
// flips an atomic index so the UI thread always reads a complete,
// non-tearing frame.
type Waveform struct {
	buffers [2][WaveformSize]int16
	active  atomic.Int32
	writePos int
}

// Write appends one sample to the buffer currently being assembled,
// flipping buffers and publishing once it fills.
func (w *Waveform) Write(sample int16) {
	idx := 1 - w.active.Load()
	w.buffers[idx][w.writePos] = sample
	w.writePos++
	if w.writePos >= WaveformSize {
		w.writePos = 0
		w.active.Store(idx)
	}
}

// Snapshot copies the last fully published buffer into dst, which
// must have length WaveformSize.
func (w *Waveform) Snapshot(dst []int16) {
	idx := w.active.Load()
	copy(dst, w.buffers[idx][:])
}
