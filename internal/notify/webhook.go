package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/terra-clan/nebula-guide/internal/metrics"
	"github.com/terra-clan/nebula-guide/internal/models"
)

const (
	kindReport  = "report"
	kindConsult = "consult"
)

// WebhookConfig holds the outbound endpoints
type WebhookConfig struct {
	ReportURL  string
	ConsultURL string
	Timeout    time.Duration
}

// Webhook posts tracking events as JSON to fixed URLs without waiting for
// the result. There is no retry; failures are logged and counted.
type Webhook struct {
	cfg        WebhookConfig
	httpClient *http.Client
	wg         sync.WaitGroup
}

// WebhookOption configures a Webhook
type WebhookOption func(*Webhook)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *Webhook) {
		w.httpClient = client
	}
}

// NewWebhook creates a webhook notifier. An empty URL disables that notification.
func NewWebhook(cfg WebhookConfig, opts ...WebhookOption) *Webhook {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	w := &Webhook{
		cfg:        cfg,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// ReportGenerated posts the report event
func (w *Webhook) ReportGenerated(ctx context.Context, ev models.ReportEvent) {
	w.post(ctx, kindReport, w.cfg.ReportURL, ev)
}

// ConsultRequested posts the consult event
func (w *Webhook) ConsultRequested(ctx context.Context, ev models.ConsultEvent) {
	w.post(ctx, kindConsult, w.cfg.ConsultURL, ev)
}

// Close waits for in-flight deliveries or until ctx is done
func (w *Webhook) Close(ctx context.Context) error {
	return waitGroup(ctx, &w.wg)
}

func (w *Webhook) post(ctx context.Context, kind, url string, payload interface{}) {
	if url == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal tracking event", "kind", kind, "error", err)
		return
	}

	// The delivery outlives the request that triggered it.
	ctx = context.WithoutCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		start := time.Now()
		err := w.send(ctx, url, body)
		metrics.RecordNotification(kind, "webhook", err, time.Since(start).Seconds())

		if err != nil {
			slog.Error("tracking webhook failed", "kind", kind, "error", err)
			return
		}
		slog.Debug("tracking webhook sent", "kind", kind)
	}()
}

func (w *Webhook) send(ctx context.Context, url string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
