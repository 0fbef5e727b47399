// Package metrics defines the observability hooks used across the site and
// their Prometheus implementation.
package metrics

import "time"

// Outcome labels contact submissions.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// CloseReason labels why a page view ended.
type CloseReason string

const (
	CloseClient   CloseReason = "client"
	CloseIdle     CloseReason = "idle"
	CloseShutdown CloseReason = "shutdown"
)

// Recorder receives page and contact events. Implementations must tolerate
// being called from concurrent request handlers.
type Recorder interface {
	IncScrollEvent()
	IncActiveSection(section string)
	IncReveal(region string)
	IncViewOpened()
	IncViewClosed(reason CloseReason)
	SetOpenViews(n int)
	IncContact(outcome Outcome)
	ObserveContactDuration(d time.Duration)
}

// NoopRecorder is the default when metrics are disabled.
type NoopRecorder struct{}

func (NoopRecorder) IncScrollEvent()                      {}
func (NoopRecorder) IncActiveSection(string)              {}
func (NoopRecorder) IncReveal(string)                     {}
func (NoopRecorder) IncViewOpened()                       {}
func (NoopRecorder) IncViewClosed(CloseReason)            {}
func (NoopRecorder) SetOpenViews(int)                     {}
func (NoopRecorder) IncContact(Outcome)                   {}
func (NoopRecorder) ObserveContactDuration(time.Duration) {}
