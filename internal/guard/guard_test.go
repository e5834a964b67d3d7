package guard

import (
	"sync"
	"testing"
)

func TestAudioGuardWithLockIsExclusive(t *testing.T) {
	var g AudioGuard
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.WithLock(func() {
				counter++
			})
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Fatalf("expected 100 guarded increments, got %d", counter)
	}
}

func TestPerfCountersReadReflectsLastUpdate(t *testing.T) {
	var p PerfCounters
	p.Update(512, 600, 2, 12345)
	snap := p.Read()
	if snap.CallbackSamples != 512 || snap.PeakSamples != 600 || snap.UnderrunCount != 2 || snap.LastBlockNanos != 12345 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestPerfCountersPeakIsMonotonic(t *testing.T) {
	var p PerfCounters
	p.Update(100, 900, 0, 1)
	p.Update(100, 200, 0, 1)
	snap := p.Read()
	if snap.PeakSamples != 900 {
		t.Fatalf("expected peak to stay at 900, got %d", snap.PeakSamples)
	}
}

func TestWaveformSnapshotFillsAfterOneFullBuffer(t *testing.T) {
	var w Waveform
	for i := 0; i < WaveformSize; i++ {
		w.Write(int16(i % 100))
	}
	dst := make([]int16, WaveformSize)
	w.Snapshot(dst)
	if dst[0] != 0 || dst[1] != 1 {
		t.Fatalf("expected published buffer to hold the first fill, got %v, %v", dst[0], dst[1])
	}
}
