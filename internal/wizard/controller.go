package wizard

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/nebula-guide/internal/metrics"
	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/questionnaire"
)

// Notifier receives the two tracking notifications of a wizard run.
// Implementations must not block the caller and must swallow their own failures.
type Notifier interface {
	ReportGenerated(ctx context.Context, ev models.ReportEvent)
	ConsultRequested(ctx context.Context, ev models.ConsultEvent)
}

type nopNotifier struct{}

func (nopNotifier) ReportGenerated(context.Context, models.ReportEvent)   {}
func (nopNotifier) ConsultRequested(context.Context, models.ConsultEvent) {}

// Controller applies actions to wizard states and emits the side effects
// attached to them. It holds no per-run state itself.
type Controller struct {
	source     questionnaire.Source
	notifier   Notifier
	now        func() time.Time
	consultURL string
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the time source used for event timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithConsultURL sets the booking form shown once the consult overlay is open
func WithConsultURL(url string) Option {
	return func(c *Controller) {
		c.consultURL = url
	}
}

// NewController creates a controller. A nil notifier disables notifications.
func NewController(source questionnaire.Source, notifier Notifier, opts ...Option) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	c := &Controller{
		source:   source,
		notifier: notifier,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Questionnaire returns the questionnaire currently in effect
func (c *Controller) Questionnaire() *models.Questionnaire {
	return c.source.Current()
}

// Start returns the initial state of a new run
func (c *Controller) Start() State {
	metrics.RecordWizardStarted()
	return Initial(c.Questionnaire())
}

// Dispatch applies a to s. Reaching the result screen from the profile step
// sends the report notification; opening the consult overlay sends the
// consult notification. Neither notification can fail the dispatch.
func (c *Controller) Dispatch(ctx context.Context, s State, a Action) (State, error) {
	q := c.Questionnaire()

	next, err := Reduce(q, s, a)
	if err != nil {
		metrics.RecordActionRejected(string(a.Kind))
		return s, err
	}

	if next.Screen != s.Screen {
		metrics.RecordTransition(s.Screen.String(), next.Screen.String())
		slog.Debug("wizard transition", "from", s.Screen, "to", next.Screen)
	}

	if s.Screen == ScreenNebula && next.Screen == ScreenResult {
		c.notifier.ReportGenerated(ctx, c.reportEvent(next))
	}

	if a.Kind == ActionOpenConsult {
		c.notifier.ConsultRequested(ctx, models.ConsultEvent{
			Nickname:  next.Profile.Nickname,
			Action:    models.ConsultAction,
			Timestamp: models.Timestamp(c.now()),
		})
	}

	return next, nil
}

func (c *Controller) reportEvent(s State) models.ReportEvent {
	scores := make(map[int]int, len(s.Scores))
	for k, v := range s.Scores {
		scores[k] = v
	}

	return models.ReportEvent{
		Nickname:     s.Profile.Nickname,
		Pressure:     s.Profile.Pressure,
		Disease:      s.Profile.Condition,
		Residence:    s.Profile.Residence,
		Relationship: s.Profile.Relationship,
		Duration:     s.Profile.Duration,
		Scores:       scores,
		CurrentMood:  s.Mood.CurrentTag,
		FutureMood:   s.Mood.FutureTag,
		Timestamp:    models.Timestamp(c.now()),
	}
}
