package scrollstate

import "errors"

// DefaultBias is how far past a section's top edge the viewport has to be
// before that section counts as entered.
const DefaultBias = 100

// ErrEmptyRegistry reports a page composed without any sections.
var ErrEmptyRegistry = errors.New("scrollstate: section registry is empty")

// Resolver picks the active section for a scroll offset.
type Resolver struct {
	Bias float64
}

// Resolve scans from the bottom-most section upward and returns the first
// one whose top is at or above scrollY+Bias. When none qualifies the
// top-most section wins. ok is false only for an empty section list.
func (r Resolver) Resolve(sections []Section, scrollY float64) (id string, ok bool) {
	if len(sections) == 0 {
		return "", false
	}
	position := scrollY + r.Bias
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].OffsetTop <= position {
			return sections[i].ID, true
		}
	}
	return sections[0].ID, true
}

// MustResolve is Resolve against a registry that page composition has
// already filled. An empty registry is a wiring defect and panics.
func (r Resolver) MustResolve(reg *Registry, scrollY float64) string {
	id, ok := r.Resolve(reg.All(), scrollY)
	if !ok {
		panic(ErrEmptyRegistry)
	}
	return id
}
