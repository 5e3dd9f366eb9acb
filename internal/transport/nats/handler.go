package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"paycode/internal/model"
	"paycode/internal/repository"
	"paycode/internal/service"
)

// commandTimeout bounds each command's handling independently of the app
// context, so commands still being drained after shutdown begins complete
// instead of failing with the cancellation.
const commandTimeout = 30 * time.Second

// Handler subscribes to NATS command topics and delegates to the payment
// service. Queue subscription keeps each command on exactly one instance
// when the engine runs replicated.
type Handler struct {
	svc  service.PaymentService
	nc   *nats.Conn
	subs []*nats.Subscription
}

func NewHandler(svc service.PaymentService, nc *nats.Conn) *Handler {
	return &Handler{svc: svc, nc: nc}
}

// Start subscribes to command topics and blocks until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) error {
	sub, err := h.nc.QueueSubscribe(repository.TopicRechargeCommand, "paycode_engine", func(m *nats.Msg) {
		h.handleRecharge(m.Data)
	})
	if err != nil {
		return err
	}
	h.subs = append(h.subs, sub)

	slog.Info("NATS command handler is running")

	<-ctx.Done()
	slog.Info("NATS command handler shutting down, draining subscriptions...")

	for _, s := range h.subs {
		_ = s.Drain()
	}
	return nil
}

func (h *Handler) handleRecharge(data []byte) {
	var req model.RechargeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Error("nats: failed to unmarshal recharge command", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := h.svc.Recharge(ctx, req); err != nil {
		slog.Error("nats: recharge failed", "error", err, "payer_id", req.PayerID)
	}
}

func (h *Handler) Stop(ctx context.Context) error {
	for _, s := range h.subs {
		_ = s.Unsubscribe()
	}
	return nil
}
