package automation

const maxOptionLabels = 8
const maxLabelLength = 15

// Lane is a sequence of automation Nodes stored as a contiguous slice
// inside a shared Pool, plus option labels and an enabled flag.
type Lane struct {
	pool     *Pool
	start    int
	count    int
	capacity int
	enabled  bool
	labels   []string
}

// NewLane binds a lane to its owning pool. The lane starts empty and
// unallocated (start == invalid, capacity == 0).
func NewLane(pool *Pool) *Lane {
	return &Lane{pool: pool, start: invalidStart, enabled: true}
}

// Enabled reports whether the lane currently modulates its parameter.
func (l *Lane) Enabled() bool { return l.enabled }

// SetEnabled toggles the lane.
func (l *Lane) SetEnabled(v bool) { l.enabled = v }

// Count returns the number of nodes currently stored.
func (l *Lane) Count() int { return l.count }

// Node returns the node at index i for read-only iteration (e.g.
// scene export). Panics if i is out of [0, Count()).
func (l *Lane) Node(i int) Node { return l.nodeAt(i) }

// Capacity returns the lane's current allocation size in the pool.
func (l *Lane) Capacity() int { return l.capacity }

// HasOptions reports whether the lane carries option labels.
func (l *Lane) HasOptions() bool { return len(l.labels) > 0 }

// OptionCount returns the number of option labels, or 0.
func (l *Lane) OptionCount() int { return len(l.labels) }

// OptionLabel returns the label at index i, or "".
func (l *Lane) OptionLabel(i int) string {
	if i < 0 || i >= len(l.labels) {
		return ""
	}
	return l.labels[i]
}

func (l *Lane) nodeAt(i int) Node {
	return l.pool.nodes[l.start+i]
}

func (l *Lane) setNodeAt(i int, n Node) {
	l.pool.nodes[l.start+i] = n
}

// ensureCapacity grows the lane to hold at least n nodes, reallocating
// within the pool if needed. Growth policy: max(n, 2*current, 4),
// capped at laneMax. On allocation failure it retries with exactly n;
// if that also fails the lane is left unchanged and false is returned.
func (l *Lane) ensureCapacity(n int, laneMax int) bool {
	if n <= l.capacity {
		return true
	}
	want := n
	if grown := l.capacity * 2; grown > want {
		want = grown
	}
	if want < 4 {
		want = 4
	}
	if laneMax > 0 && want > laneMax {
		want = laneMax
	}
	if want < n {
		want = n
	}

	if newStart, ok := l.pool.reserveBlock(want); ok {
		l.relocate(newStart, want)
		return true
	}
	if want != n {
		if newStart, ok := l.pool.reserveBlock(n); ok {
			l.relocate(newStart, n)
			return true
		}
	}
	return false
}

func (l *Lane) relocate(newStart, newCap int) {
	if l.start != invalidStart {
		copy(l.pool.nodes[newStart:newStart+l.count], l.pool.nodes[l.start:l.start+l.count])
		l.pool.freeBlockAt(l.start, l.capacity)
	}
	l.start = newStart
	l.capacity = newCap
}

// AppendNode appends (x,y) if x >= lastX, fewer than two nodes already
// share x (a third sharing the same x is rejected), and the pool can
// grow to accommodate it. Returns false (no-op) otherwise.
func (l *Lane) AppendNode(x, y uint8) bool {
	if l.count > 0 {
		last := l.nodeAt(l.count - 1)
		if x < last.X {
			return false
		}
		if x == last.X {
			sameX := 0
			for i := l.count - 1; i >= 0 && l.nodeAt(i).X == x; i-- {
				sameX++
			}
			if sameX >= 2 {
				return false
			}
		}
	}
	if l.HasOptions() {
		max := uint8(l.OptionCount() - 1)
		if y > max {
			y = max
		}
	}
	if !l.ensureCapacity(l.count+1, 0) {
		return false
	}
	l.setNodeAt(l.count, Node{X: x, Y: y})
	l.count++
	return true
}

// Clear releases the lane's block back to the pool and resets it.
func (l *Lane) Clear() {
	if l.start != invalidStart {
		l.pool.freeBlockAt(l.start, l.capacity)
	}
	l.start = invalidStart
	l.capacity = 0
	l.count = 0
	l.enabled = false
}

// SetOptions copies up to maxOptionLabels labels (each truncated to
// maxLabelLength) and clamps all existing node y-values into the new
// option range.
func (l *Lane) SetOptions(labels []string) {
	if len(labels) > maxOptionLabels {
		labels = labels[:maxOptionLabels]
	}
	out := make([]string, len(labels))
	for i, s := range labels {
		if len(s) > maxLabelLength {
			s = s[:maxLabelLength]
		}
		out[i] = s
	}
	l.labels = out
	if len(out) == 0 {
		return
	}
	max := uint8(len(out) - 1)
	for i := 0; i < l.count; i++ {
		n := l.nodeAt(i)
		if n.Y > max {
			n.Y = max
			l.setNodeAt(i, n)
		}
	}
}

// Evaluate implements the per-lane interpolation rule: step-hold for
// option lanes, linear for numeric lanes, 0 for empty lanes. t <=
// first.X returns first.Y; t >= last.X returns last.Y.
func (l *Lane) Evaluate(t float64) uint8 {
	if l.count == 0 {
		return 0
	}
	first := l.nodeAt(0)
	if t <= float64(first.X) {
		return first.Y
	}
	last := l.nodeAt(l.count - 1)
	if t >= float64(last.X) {
		return last.Y
	}
	for i := 0; i < l.count-1; i++ {
		a := l.nodeAt(i)
		b := l.nodeAt(i + 1)
		if t >= float64(a.X) && t <= float64(b.X) {
			if l.HasOptions() || a.X == b.X {
				return a.Y
			}
			span := float64(b.X) - float64(a.X)
			frac := (t - float64(a.X)) / span
			return uint8(float64(a.Y) + frac*(float64(b.Y)-float64(a.Y)))
		}
	}
	return last.Y
}
