package automation

import "testing"

func TestEvaluateEmptyLaneIsZero(t *testing.T) {
	pool := NewPool(64)
	l := NewLane(pool)
	if v := l.Evaluate(4); v != 0 {
		t.Fatalf("expected 0, got %v", v)
	}
}

func TestAppendNodeRejectsDecreasingX(t *testing.T) {
	pool := NewPool(64)
	l := NewLane(pool)
	if !l.AppendNode(5, 100) {
		t.Fatal("expected first append to succeed")
	}
	if l.AppendNode(3, 50) {
		t.Fatal("expected decreasing x to be rejected")
	}
}

func TestAppendNodeAllowsTwoSharedX(t *testing.T) {
	pool := NewPool(64)
	l := NewLane(pool)
	if !l.AppendNode(5, 0) || !l.AppendNode(5, 255) {
		t.Fatal("expected two nodes sharing x to succeed")
	}
	if l.AppendNode(5, 128) {
		t.Fatal("expected a third node sharing x to be rejected")
	}
}

func TestEvaluateLinearInterpolation(t *testing.T) {
	pool := NewPool(64)
	l := NewLane(pool)
	l.AppendNode(0, 0)
	l.AppendNode(10, 100)
	if v := l.Evaluate(5); v < 45 || v > 55 {
		t.Fatalf("expected ~50 at midpoint, got %v", v)
	}
	if v := l.Evaluate(-1); v != 0 {
		t.Fatalf("expected clamp to first.Y before range, got %v", v)
	}
	if v := l.Evaluate(20); v != 100 {
		t.Fatalf("expected clamp to last.Y after range, got %v", v)
	}
}

// Scenario C from the testable-properties list: clamping options after
// the fact disables interpolation and clamps existing node values.
func TestSetOptionsClampsAndDisablesInterpolation(t *testing.T) {
	pool := NewPool(64)
	l := NewLane(pool)
	l.SetOptions([]string{"lp1", "acid", "moog"})
	l.AppendNode(0, 255)
	l.AppendNode(15, 0)

	l.SetOptions([]string{"lp1", "acid"})

	if v := l.Evaluate(0); v != 1 {
		t.Fatalf("expected clamped value 1 at t=0, got %v", v)
	}
	if v := l.Evaluate(15); v != 0 {
		t.Fatalf("expected 0 at t=15, got %v", v)
	}
	if v := l.Evaluate(7); v != 1 {
		t.Fatalf("expected step-hold (first node's y) mid-lane, got %v", v)
	}
}

func TestClearReleasesBlock(t *testing.T) {
	pool := NewPool(16)
	l := NewLane(pool)
	l.AppendNode(0, 1)
	l.AppendNode(1, 2)
	l.Clear()
	if l.start != invalidStart || l.capacity != 0 || l.count != 0 {
		t.Fatalf("expected lane reset after Clear")
	}
	if !pool.freeBlocksValid() {
		t.Fatal("expected free list to remain valid")
	}
}

// Invariant 2: after any sequence of edits, free blocks are pairwise
// disjoint, sorted, and their union with allocated slices equals the
// whole pool region.
func TestPoolFreeListInvariant(t *testing.T) {
	pool := NewPool(32)
	lanes := make([]*Lane, 4)
	for i := range lanes {
		lanes[i] = NewLane(pool)
	}
	for i := 0; i < 16; i++ {
		lanes[i%4].AppendNode(uint8(i%16), uint8(i))
	}
	lanes[1].Clear()
	lanes[3].AppendNode(15, 9)

	if !pool.freeBlocksValid() {
		t.Fatal("expected free list sorted and disjoint")
	}
	allocated := 0
	for _, l := range lanes {
		allocated += l.capacity
	}
	free := 0
	for _, b := range pool.free {
		free += b.length
	}
	if allocated+free != pool.Capacity() {
		t.Fatalf("expected allocated+free to equal pool capacity, got %d+%d != %d", allocated, free, pool.Capacity())
	}
}

// Scenario E: pool exhaustion is a soft failure.
func TestPoolExhaustionIsSoftFailure(t *testing.T) {
	pool := NewPool(4)
	full := NewLane(pool)
	for i := 0; i < 4; i++ {
		if !full.AppendNode(uint8(i), 1) {
			t.Fatalf("expected append %d to succeed while pool has room", i)
		}
	}
	empty := NewLane(pool)
	if empty.AppendNode(0, 1) {
		t.Fatal("expected append to fail when pool is exhausted")
	}
	if empty.count != 0 || empty.capacity != 0 {
		t.Fatal("expected untouched empty lane after failed append")
	}
	if full.count != 4 {
		t.Fatal("expected full lane to be unaffected by the failed sibling append")
	}
}
