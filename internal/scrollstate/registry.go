// Package scrollstate derives navigation and visibility state for a single
// scrollable page from the current scroll offset and the section layout.
//
// Everything here is a function of two inputs: the section offsets reported
// by the host layout and the most recent scroll offset. Nothing is remembered
// between scroll ticks except the one-way reveal latches.
package scrollstate

import "sort"

// Section is a named, vertically stacked region of the page.
type Section struct {
	ID        string  `json:"id" yaml:"id"`
	OffsetTop float64 `json:"offsetTop" yaml:"offset_top"`
}

// LayoutProvider reports the current document offsets of the page sections.
// Offsets change on reflow, so callers re-query instead of caching.
type LayoutProvider interface {
	Sections() []Section
}

// LayoutFunc adapts a plain function to LayoutProvider.
type LayoutFunc func() []Section

func (f LayoutFunc) Sections() []Section { return f() }

type entry struct {
	section Section
	seq     int
}

// Registry maps section ids to their offsets.
type Registry struct {
	entries map[string]*entry
	nextSeq int
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register upserts a section. A known id keeps its registration order and
// takes the new offset, which is how reflow updates are applied.
func (r *Registry) Register(id string, offsetTop float64) {
	if e, ok := r.entries[id]; ok {
		e.section.OffsetTop = offsetTop
		return
	}
	r.entries[id] = &entry{section: Section{ID: id, OffsetTop: offsetTop}, seq: r.nextSeq}
	r.nextSeq++
}

// Refresh re-reads every offset the provider reports.
func (r *Registry) Refresh(p LayoutProvider) {
	if p == nil {
		return
	}
	for _, s := range p.Sections() {
		r.Register(s.ID, s.OffsetTop)
	}
}

// All returns the sections by ascending offset, ties in registration order.
func (r *Registry) All() []Section {
	ordered := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].section.OffsetTop != ordered[j].section.OffsetTop {
			return ordered[i].section.OffsetTop < ordered[j].section.OffsetTop
		}
		return ordered[i].seq < ordered[j].seq
	})
	out := make([]Section, len(ordered))
	for i, e := range ordered {
		out[i] = e.section
	}
	return out
}

// Offset returns the registered offset of id.
func (r *Registry) Offset(id string) (float64, bool) {
	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return e.section.OffsetTop, true
}

// First returns the top-most section.
func (r *Registry) First() (Section, bool) {
	all := r.All()
	if len(all) == 0 {
		return Section{}, false
	}
	return all[0], true
}

func (r *Registry) Len() int { return len(r.entries) }
