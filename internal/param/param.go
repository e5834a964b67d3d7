// Package param implements the Parameter primitive: a named scalar with
// range and step, optionally shadowed by an ordered label list.
package param

// Parameter is a bounded scalar. When labels are present the stored
// value is an option index rather than a free-floating float.
type Parameter struct {
	name    string
	min     float64
	max     float64
	step    float64
	current float64
	labels  []string
}

// New creates a label-free numeric parameter clamped to [min, max].
func New(name string, min, max, step, initial float64) *Parameter {
	p := &Parameter{name: name, min: min, max: max, step: step}
	p.SetValue(initial)
	return p
}

// NewOptions creates a label-bearing parameter; the stored value is the
// option index, clamped to [0, len(labels)).
func NewOptions(name string, labels []string, initialIndex int) *Parameter {
	p := &Parameter{name: name, min: 0, max: float64(len(labels) - 1), step: 1, labels: labels}
	p.SetValue(float64(initialIndex))
	return p
}

// Name returns the parameter's name.
func (p *Parameter) Name() string { return p.name }

// Value returns the current numeric value (or option index when labeled).
func (p *Parameter) Value() float64 { return p.current }

// SetValue clamps v to [min, max] and rounds to the step grid.
func (p *Parameter) SetValue(v float64) {
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	if p.step > 0 {
		v = p.min + roundToStep(v-p.min, p.step)
	}
	p.current = v
}

// SetNormalized maps nrm in [0,1] onto [min, max] and stores it.
func (p *Parameter) SetNormalized(nrm float64) {
	if nrm < 0 {
		nrm = 0
	}
	if nrm > 1 {
		nrm = 1
	}
	p.SetValue(p.min + nrm*(p.max-p.min))
}

// AddSteps adjusts the value by n steps; idempotent at bounds.
func (p *Parameter) AddSteps(n int) {
	step := p.step
	if step <= 0 {
		step = 1
	}
	p.SetValue(p.current + float64(n)*step)
}

// OptionIndex returns the current value as an integer option index.
// Valid for both labeled and unlabeled parameters (unlabeled values are
// simply truncated).
func (p *Parameter) OptionIndex() int {
	return int(p.current)
}

// OptionCount returns the number of labels, or 0 if unlabeled.
func (p *Parameter) OptionCount() int { return len(p.labels) }

// OptionLabelAt returns the label at index i, or "" if out of range or
// the parameter carries no labels.
func (p *Parameter) OptionLabelAt(i int) string {
	if i < 0 || i >= len(p.labels) {
		return ""
	}
	return p.labels[i]
}

func roundToStep(v, step float64) float64 {
	n := v / step
	// round half away from zero
	if n >= 0 {
		return float64(int64(n+0.5)) * step
	}
	return float64(int64(n-0.5)) * step
}
