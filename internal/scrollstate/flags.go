package scrollstate

import "math"

// DefaultRevealThreshold is the visible fraction of a region that counts as
// having entered the viewport.
const DefaultRevealThreshold = 0.1

// Visible reports whether the page has scrolled strictly past reference.
func Visible(scrollY, reference float64) bool {
	return scrollY > reference
}

// Threshold is a named visibility flag. With Anchor set, the reference is
// the anchor section's current offset and Offset is ignored; otherwise
// Offset is used.
type Threshold struct {
	Name   string
	Anchor string
	Offset float64
}

// Reference returns the offset the flag compares against. An anchor that is
// not registered keeps the flag off.
func (t Threshold) Reference(reg *Registry) float64 {
	if t.Anchor == "" {
		return t.Offset
	}
	if off, ok := reg.Offset(t.Anchor); ok {
		return off
	}
	return math.Inf(1)
}

// Eval recomputes the flag for scrollY.
func (t Threshold) Eval(reg *Registry, scrollY float64) bool {
	return Visible(scrollY, t.Reference(reg))
}

// Visibility is the state of an EnterOnce latch.
type Visibility int

const (
	Unseen Visibility = iota
	Seen
)

func (v Visibility) String() string {
	if v == Seen {
		return "seen"
	}
	return "unseen"
}

// EnterOnce latches the first time its region is sufficiently visible.
// Seen is terminal.
type EnterOnce struct {
	threshold float64
	state     Visibility
}

func NewEnterOnce(threshold float64) *EnterOnce {
	return &EnterOnce{threshold: threshold}
}

// Observe feeds one intersection observation and reports whether the
// latch has fired. It returns true exactly when the state is Seen.
func (e *EnterOnce) Observe(intersecting bool, ratio float64) bool {
	if e.state == Seen {
		return true
	}
	if intersecting && ratio >= e.threshold {
		e.state = Seen
	}
	return e.state == Seen
}

func (e *EnterOnce) State() Visibility { return e.state }
