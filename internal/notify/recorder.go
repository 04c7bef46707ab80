package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/nebula-guide/internal/metrics"
	"github.com/terra-clan/nebula-guide/internal/models"
)

// EventRepository stores tracking events
type EventRepository interface {
	RecordEvent(ctx context.Context, ev *models.TrackingEvent) error
}

// Recorder writes tracking events to a repository in the background
type Recorder struct {
	repo    EventRepository
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder backed by repo
func NewRecorder(repo EventRepository, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{
		repo:    repo,
		timeout: timeout,
		now:     time.Now,
	}
}

// ReportGenerated records the report event
func (r *Recorder) ReportGenerated(ctx context.Context, ev models.ReportEvent) {
	r.record(ctx, kindReport, models.EventReportGenerated, ev.Nickname, ev)
}

// ConsultRequested records the consult event
func (r *Recorder) ConsultRequested(ctx context.Context, ev models.ConsultEvent) {
	r.record(ctx, kindConsult, models.EventConsultRequested, ev.Nickname, ev)
}

// Close waits for pending writes or until ctx is done
func (r *Recorder) Close(ctx context.Context) error {
	return waitGroup(ctx, &r.wg)
}

func (r *Recorder) record(ctx context.Context, kind, eventKind, nickname string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal tracking event", "kind", kind, "error", err)
		return
	}

	ev := &models.TrackingEvent{
		ID:        uuid.NewString(),
		Kind:      eventKind,
		Nickname:  nickname,
		Payload:   data,
		CreatedAt: r.now().UTC(),
	}

	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		start := time.Now()
		err := r.repo.RecordEvent(ctx, ev)
		metrics.RecordNotification(kind, "postgres", err, time.Since(start).Seconds())

		if err != nil {
			slog.Error("failed to record tracking event", "kind", kind, "id", ev.ID, "error", err)
		}
	}()
}
