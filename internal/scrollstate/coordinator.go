package scrollstate

import (
	"maps"
	"sync"
)

// Event is a notification from the host page.
type Event interface{ isEvent() }

// ScrollEvent carries the current vertical scroll offset.
type ScrollEvent struct {
	Y float64 `json:"scrollY" form:"scrollY"`
}

// IntersectionEvent reports how much of a tracked region is in view.
type IntersectionEvent struct {
	Region       string  `json:"region" form:"region"`
	Intersecting bool    `json:"intersecting" form:"intersecting"`
	Ratio        float64 `json:"ratio" form:"ratio"`
}

// LayoutEvent reports re-measured section offsets after a reflow.
type LayoutEvent struct {
	Sections []Section `json:"sections"`
}

func (ScrollEvent) isEvent()       {}
func (IntersectionEvent) isEvent() {}
func (LayoutEvent) isEvent()       {}

// Source delivers host events to a subscriber until cancel is called.
type Source interface {
	Subscribe(fn func(Event)) (cancel func())
}

// Config tunes a Coordinator. A nil Bias and zero values elsewhere fall
// back to the defaults; an explicit zero bias is kept.
type Config struct {
	Bias            *float64
	RevealThreshold float64
	Thresholds      []Threshold
}

// DefaultThresholds are the page's built-in visibility flags: the back to
// top control appears past the about section and the nav bar changes style
// once the page leaves the very top.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Name: "back_to_top", Anchor: "about"},
		{Name: "nav_scrolled", Offset: 50},
	}
}

// Hooks are invoked after state changes, outside the coordinator lock.
type Hooks struct {
	ActiveChanged func(prev, next string)
	Revealed      func(region string)
}

// State is a snapshot of everything derived for the current scroll offset.
type State struct {
	ScrollY float64         `json:"scrollY"`
	Active  string          `json:"active"`
	Flags   map[string]bool `json:"flags"`
	Seen    map[string]bool `json:"seen"`
}

// Coordinator owns the derived scroll state for one page view.
type Coordinator struct {
	mu              sync.Mutex
	reg             *Registry
	resolver        Resolver
	thresholds      []Threshold
	revealThreshold float64
	latches         map[string]*EnterOnce

	scrollY float64
	active  string
	flags   map[string]bool

	hooks  Hooks
	detach func()
	closed bool
}

// New builds a coordinator over a registry filled at page composition.
// The active section starts at the top-most section.
func New(reg *Registry, cfg Config, hooks Hooks) (*Coordinator, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, ErrEmptyRegistry
	}
	bias := float64(DefaultBias)
	if cfg.Bias != nil {
		bias = *cfg.Bias
	}
	if cfg.RevealThreshold == 0 {
		cfg.RevealThreshold = DefaultRevealThreshold
	}
	if cfg.Thresholds == nil {
		cfg.Thresholds = DefaultThresholds()
	}
	first, _ := reg.First()
	c := &Coordinator{
		reg:             reg,
		resolver:        Resolver{Bias: bias},
		thresholds:      cfg.Thresholds,
		revealThreshold: cfg.RevealThreshold,
		latches:         make(map[string]*EnterOnce),
		active:          first.ID,
		hooks:           hooks,
	}
	c.flags = c.evalFlags(0)
	return c, nil
}

// Attach subscribes to src. Any previous subscription is cancelled.
func (c *Coordinator) Attach(src Source) {
	cancel := src.Subscribe(func(ev Event) { c.Handle(ev) })
	c.mu.Lock()
	prev := c.detach
	if c.closed {
		c.mu.Unlock()
		cancel()
		return
	}
	c.detach = cancel
	c.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// Handle applies one event. It returns false once the coordinator is closed.
func (c *Coordinator) Handle(ev Event) bool {
	var (
		changed  bool
		prev     string
		next     string
		revealed string
	)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	switch e := ev.(type) {
	case ScrollEvent:
		c.scrollY = max(e.Y, 0)
		prev, next, changed = c.recompute()
	case LayoutEvent:
		for _, s := range e.Sections {
			c.reg.Register(s.ID, max(s.OffsetTop, 0))
		}
		prev, next, changed = c.recompute()
	case IntersectionEvent:
		latch, ok := c.latches[e.Region]
		if !ok {
			latch = NewEnterOnce(c.revealThreshold)
			c.latches[e.Region] = latch
		}
		before := latch.State()
		if latch.Observe(e.Intersecting, e.Ratio) && before == Unseen {
			revealed = e.Region
		}
	}
	hooks := c.hooks
	c.mu.Unlock()

	if changed && hooks.ActiveChanged != nil {
		hooks.ActiveChanged(prev, next)
	}
	if revealed != "" && hooks.Revealed != nil {
		hooks.Revealed(revealed)
	}
	return true
}

// recompute must be called with c.mu held.
func (c *Coordinator) recompute() (prev, next string, changed bool) {
	prev = c.active
	c.active = c.resolver.MustResolve(c.reg, c.scrollY)
	c.flags = c.evalFlags(c.scrollY)
	return prev, c.active, prev != c.active
}

func (c *Coordinator) evalFlags(scrollY float64) map[string]bool {
	flags := make(map[string]bool, len(c.thresholds))
	for _, t := range c.thresholds {
		flags[t.Name] = t.Eval(c.reg, scrollY)
	}
	return flags
}

// Snapshot returns a copy of the current derived state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[string]bool, len(c.latches))
	for region, latch := range c.latches {
		seen[region] = latch.State() == Seen
	}
	return State{
		ScrollY: c.scrollY,
		Active:  c.active,
		Flags:   maps.Clone(c.flags),
		Seen:    seen,
	}
}

// Sections returns the registry contents in page order.
func (c *Coordinator) Sections() []Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.All()
}

// Close deregisters from the attached source. Events that still reach the
// coordinator afterwards are dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	detach := c.detach
	c.detach = nil
	c.mu.Unlock()
	if detach != nil {
		detach()
	}
}

func (c *Coordinator) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
