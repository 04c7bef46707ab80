// Package notify delivers the fire-and-forget tracking notifications of a
// wizard run to external collaborators.
package notify

import (
	"context"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/wizard"
)

// Multi fans every notification out to all of its notifiers
type Multi []wizard.Notifier

// ReportGenerated forwards to every notifier
func (m Multi) ReportGenerated(ctx context.Context, ev models.ReportEvent) {
	for _, n := range m {
		n.ReportGenerated(ctx, ev)
	}
}

// ConsultRequested forwards to every notifier
func (m Multi) ConsultRequested(ctx context.Context, ev models.ConsultEvent) {
	for _, n := range m {
		n.ConsultRequested(ctx, ev)
	}
}

var (
	_ wizard.Notifier = (*Webhook)(nil)
	_ wizard.Notifier = (*Recorder)(nil)
	_ wizard.Notifier = Multi(nil)
)
