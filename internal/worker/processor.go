package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"paycode/internal/model"
	"paycode/internal/repository"
)

// WebhookWorker listens on the payments.completed topic and notifies the
// merchant-side receiver about settled payments. Settlement has already
// committed by the time an event arrives, so a delivery failure costs the
// notification, never the ledger.
type WebhookWorker struct {
	natsConn   *nats.Conn
	webhookURL string
	client     httpPoster
}

func NewWebhookWorker(nc *nats.Conn, webhookURL string) *WebhookWorker {
	return &WebhookWorker{
		natsConn:   nc,
		webhookURL: webhookURL,
		client:     newWebhookClient(),
	}
}

// Run subscribes to payments.completed and blocks until ctx is cancelled.
// QueueSubscribe keeps each event on exactly one worker in the group.
func (w *WebhookWorker) Run(ctx context.Context) error {
	sub, err := w.natsConn.QueueSubscribe(repository.TopicPaymentCompleted, "webhook_group", func(m *nats.Msg) {
		if err := w.handleEvent(m.Data); err != nil {
			slog.Error("worker: webhook delivery failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("worker: failed to subscribe to NATS: %w", err)
	}

	slog.Info("Webhook worker is running")

	<-ctx.Done()

	slog.Info("Worker received shutdown signal, draining subscription...")
	return sub.Drain()
}

// handleEvent decodes one payment event and posts it to the configured
// receiver. Split out from Run so delivery is testable without a NATS server.
func (w *WebhookWorker) handleEvent(data []byte) error {
	var event model.PaymentCompletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("unmarshal payment event: %w", err)
	}

	if w.webhookURL == "" {
		slog.Debug("worker: no webhook URL configured, dropping event", "payment_id", event.PaymentID)
		return nil
	}

	if err := w.client.post(w.webhookURL, map[string]any{
		"event": "payment.completed",
		"data":  event,
	}); err != nil {
		return err
	}

	slog.Info("worker: webhook delivered",
		"payment_id", event.PaymentID,
		"order_id", event.OrderID,
	)
	return nil
}

// Start implements the infrastructure.Server interface.
func (w *WebhookWorker) Start(ctx context.Context) error {
	return w.Run(ctx)
}

// Stop implements the infrastructure.Server interface (no-op, shutdown is via ctx).
func (w *WebhookWorker) Stop(ctx context.Context) error {
	return nil
}
