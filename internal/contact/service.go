package contact

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/metrics"
)

// Result is what the page shows after a submission.
type Result struct {
	OK     bool        `json:"ok"`
	Title  string      `json:"title"`
	Notice string      `json:"notice"`
	Errors FieldErrors `json:"errors,omitempty"`
}

var (
	sentResult   = Result{OK: true, Title: "Message Sent!", Notice: "Thank you for your message. I'll get back to you soon."}
	failedResult = Result{Title: "Error", Notice: "Something went wrong. Please try again."}
)

// Service validates submissions and hands them to a Submitter.
type Service struct {
	submitter Submitter
	timeout   time.Duration
	logger    *zap.Logger
	recorder  metrics.Recorder
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }
func WithRecorder(r metrics.Recorder) Option { return func(s *Service) { s.recorder = r } }
func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func NewService(sub Submitter, opts ...Option) *Service {
	s := &Service{
		submitter: sub,
		timeout:   30 * time.Second,
		logger:    zap.NewNop(),
		recorder:  metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit validates f and delivers it. Delivery failures only ever surface
// the generic notice; the cause goes to the log.
func (s *Service) Submit(ctx context.Context, f Form) Result {
	if err := f.Validate(); err != nil {
		s.recorder.IncContact(metrics.OutcomeInvalid)
		var fe FieldErrors
		if errors.As(err, &fe) {
			return Result{Title: "Error", Notice: "Please fix the highlighted fields.", Errors: fe}
		}
		s.logger.Error("Contact validation failed unexpectedly", zap.Error(err))
		return failedResult
	}
	f = f.Normalize()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	err := s.submitter.Submit(ctx, f)
	s.recorder.ObserveContactDuration(time.Since(start))
	if err != nil {
		s.recorder.IncContact(metrics.OutcomeFailed)
		s.logger.Error("Error sending contact message", zap.Error(err))
		return failedResult
	}
	s.recorder.IncContact(metrics.OutcomeSent)
	s.logger.Info("Contact message sent", zap.String("name", f.Name))
	return sentResult
}
