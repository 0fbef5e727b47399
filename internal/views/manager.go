// Package views tracks the scroll state of every open page view.
//
// A view is created when the page is rendered and holds one scroll
// coordinator attached to a feed. Browser events arrive over HTTP and are
// published into that feed. A view ends when the browser says goodbye or
// when it has been idle for longer than the configured TTL.
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/ledger"
	"github.com/Zachkp/folio/internal/metrics"
	"github.com/Zachkp/folio/internal/scrollstate"
)

// ErrNotFound is returned for unknown or already closed views.
var ErrNotFound = errors.New("views: page view not found")

// Ledger is the subset of the page-view ledger the manager writes to.
type Ledger interface {
	Opened(ctx context.Context, v ledger.Visit) error
	Reached(ctx context.Context, viewID, section string, at time.Time) error
	Closed(ctx context.Context, viewID string, at time.Time) error
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Meta describes the request opening a view. Track is false for visitors
// that sent Do Not Track.
type Meta struct {
	IP        string
	UserAgent string
	Track     bool
}

// View is one rendered page.
type View struct {
	ID     string
	Opened time.Time

	coord    *scrollstate.Coordinator
	feed     *scrollstate.Feed
	lastSeen atomic.Int64
	track    bool
}

func (v *View) touch(now time.Time) { v.lastSeen.Store(now.UnixNano()) }

// LastSeen is the time of the view's latest event.
func (v *View) LastSeen() time.Time { return time.Unix(0, v.lastSeen.Load()) }

// State returns the view's current derived scroll state.
func (v *View) State() scrollstate.State { return v.coord.Snapshot() }

// Sections returns the view's registered sections in page order.
func (v *View) Sections() []scrollstate.Section { return v.coord.Sections() }

type Options struct {
	Scroll    scrollstate.Config
	IdleTTL   time.Duration
	Retention time.Duration
}

// Manager owns all open views.
type Manager struct {
	mu    sync.Mutex
	views map[string]*View

	layout   func() scrollstate.LayoutProvider
	opts     Options
	ledger   Ledger
	recorder metrics.Recorder
	logger   *zap.Logger
	now      func() time.Time

	sweeper *Sweeper
}

type Option func(*Manager)

func WithLedger(l Ledger) Option { return func(m *Manager) { m.ledger = l } }
func WithRecorder(r metrics.Recorder) Option { return func(m *Manager) { m.recorder = r } }
func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.logger = l } }
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// NewManager seeds every new view from layout, which is re-queried per view
// so content reloads apply to the next page render.
func NewManager(layout func() scrollstate.LayoutProvider, opts Options, options ...Option) *Manager {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	m := &Manager{
		views:    make(map[string]*View),
		layout:   layout,
		opts:     opts,
		recorder: metrics.NoopRecorder{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Open creates a view for a freshly rendered page.
func (m *Manager) Open(ctx context.Context, meta Meta) (*View, error) {
	reg := scrollstate.NewRegistry()
	reg.Refresh(m.layout())

	v := &View{
		ID:     uuid.NewString(),
		Opened: m.now(),
		feed:   scrollstate.NewFeed(),
		track:  meta.Track && m.ledger != nil,
	}
	coord, err := scrollstate.New(reg, m.opts.Scroll, scrollstate.Hooks{
		ActiveChanged: func(_, next string) { m.activeChanged(v, next) },
		Revealed:      func(region string) { m.recorder.IncReveal(region) },
	})
	if err != nil {
		return nil, fmt.Errorf("compose page view: %w", err)
	}
	coord.Attach(v.feed)
	v.coord = coord
	v.touch(v.Opened)

	if v.track {
		if err := m.ledger.Opened(ctx, ledger.Visit{ViewID: v.ID, IP: meta.IP, UserAgent: meta.UserAgent, At: v.Opened}); err != nil {
			m.logger.Warn("Error recording page view", zap.String("view", v.ID), zap.Error(err))
			v.track = false
		} else if err := m.ledger.Reached(ctx, v.ID, v.State().Active, v.Opened); err != nil {
			m.logger.Warn("Error recording section reach", zap.String("view", v.ID), zap.Error(err))
		}
	}

	m.mu.Lock()
	m.views[v.ID] = v
	n := len(m.views)
	m.mu.Unlock()

	m.recorder.IncViewOpened()
	m.recorder.SetOpenViews(n)
	m.logger.Debug("Page view opened", zap.String("view", v.ID))
	return v, nil
}

func (m *Manager) activeChanged(v *View, section string) {
	m.recorder.IncActiveSection(section)
	if !v.track {
		return
	}
	if err := m.ledger.Reached(context.Background(), v.ID, section, m.now()); err != nil {
		m.logger.Warn("Error recording section reach",
			zap.String("view", v.ID), zap.String("section", section), zap.Error(err))
	}
}

// Get returns an open view.
func (m *Manager) Get(id string) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Dispatch publishes a browser event to a view and returns the state it
// produced.
func (m *Manager) Dispatch(id string, ev scrollstate.Event) (scrollstate.State, error) {
	v, err := m.Get(id)
	if err != nil {
		return scrollstate.State{}, err
	}
	if _, ok := ev.(scrollstate.ScrollEvent); ok {
		m.recorder.IncScrollEvent()
	}
	if v.feed.Publish(ev) == 0 {
		// closed between Get and Publish
		return scrollstate.State{}, ErrNotFound
	}
	v.touch(m.now())
	return v.State(), nil
}

// Close tears a view down. Closing an unknown view returns ErrNotFound.
func (m *Manager) Close(ctx context.Context, id string, reason metrics.CloseReason) error {
	m.mu.Lock()
	v, ok := m.views[id]
	if ok {
		delete(m.views, id)
	}
	n := len(m.views)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	v.coord.Close()
	m.recorder.IncViewClosed(reason)
	m.recorder.SetOpenViews(n)
	if v.track {
		if err := m.ledger.Closed(ctx, v.ID, m.now()); err != nil {
			m.logger.Warn("Error recording view close", zap.String("view", v.ID), zap.Error(err))
		}
	}
	m.logger.Debug("Page view closed", zap.String("view", id), zap.String("reason", string(reason)))
	return nil
}

// Sweep closes views idle since before now minus the TTL.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.opts.IdleTTL)
	var stale []string
	m.mu.Lock()
	for id, v := range m.views {
		if v.LastSeen().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	closed := 0
	for _, id := range stale {
		if m.Close(ctx, id, metrics.CloseIdle) == nil {
			closed++
		}
	}
	if closed > 0 {
		m.logger.Info("Swept idle page views", zap.Int("closed", closed))
	}
	return closed
}

// Purge drops ledger rows older than the retention window.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	if m.ledger == nil || m.opts.Retention <= 0 {
		return 0, nil
	}
	return m.ledger.Purge(ctx, m.now().Add(-m.opts.Retention))
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Shutdown stops the sweeper and closes every open view.
func (m *Manager) Shutdown(ctx context.Context) error {
	var err error
	if m.sweeper != nil {
		err = m.sweeper.Stop()
	}
	m.mu.Lock()
	ids := make([]string, 0, len(m.views))
	for id := range m.views {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		_ = m.Close(ctx, id, metrics.CloseShutdown)
	}
	return err
}
