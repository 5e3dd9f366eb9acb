package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"paycode/internal/model"
	"paycode/internal/repository"
)

// Settle moves order.Amount from the payer to the merchant and completes the
// order. The store performs the whole step — payer debit, merchant credit,
// ledger records, payment row, order completion — as one unit; given
// concurrent attempts on the same code exactly one reaches that step with the
// order still pending.
func (e *Engine) Settle(ctx context.Context, req model.SettleRequest) (*model.SettleResult, error) {
	if req.PaymentCode == "" || req.PayerID == "" || req.Method == "" {
		return nil, fmt.Errorf("%w: payment_code, payer_id and method are required", model.ErrValidation)
	}

	ord, err := e.store.OrderByCode(ctx, req.PaymentCode)
	if err != nil {
		return nil, err
	}
	if err := e.expireIfDue(ctx, ord); err != nil {
		return nil, err
	}
	if ord.Status != model.OrderPending {
		return nil, notPendingErr(ord.Status)
	}

	payer, err := e.store.Account(ctx, req.PayerID)
	if err != nil {
		return nil, err
	}
	if payer.Kind != model.KindPayer {
		return nil, fmt.Errorf("%w: account %s is not a payer wallet", model.ErrNotFound, req.PayerID)
	}

	// Expiry is re-checked against the clock inside the atomic step too: the
	// code can lapse between the lookup above and the settlement itself.
	res, err := e.store.ExecuteSettlement(ctx, ord.ID, req.PayerID, req.Method, e.now())
	if err != nil {
		return nil, err
	}

	e.publish(repository.TopicPaymentCompleted, model.PaymentCompletedEvent{
		PaymentID:   res.PaymentID,
		OrderID:     res.OrderID,
		PayerID:     req.PayerID,
		MerchantID:  ord.MerchantID,
		Amount:      res.Amount,
		Method:      req.Method,
		ProcessedAt: res.ProcessedAt,
	})
	return res, nil
}

func (e *Engine) PaymentByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	return e.store.PaymentByID(ctx, paymentID)
}

// publish is best-effort: settlement has already committed, so a bus failure
// only costs the notification, never the money movement.
func (e *Engine) publish(topic string, event any) {
	if e.bus == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal event", "topic", topic, "error", err)
		return
	}
	if err := e.bus.Publish(topic, data); err != nil {
		slog.Error("publish event", "topic", topic, "error", err)
	}
}
