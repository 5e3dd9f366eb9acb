package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"paycode/internal/model"
)

// codeAttempts bounds how many fresh codes we draw when creation keeps
// colliding with codes held by other pending orders.
const codeAttempts = 5

func (e *Engine) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: order amount must be positive, got %d", model.ErrInvalidAmount, req.Amount)
	}

	merchant, err := e.store.Account(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant.Kind != model.KindMerchant {
		return nil, fmt.Errorf("%w: account %s is not a merchant", model.ErrNotFound, req.MerchantID)
	}

	name := req.MerchantName
	if name == "" {
		name = merchant.Name
	}
	description := req.Description
	if description == "" {
		description = "Payment"
	}

	now := e.now()
	var ord *model.Order

	// Generate-then-insert: the store enforces uniqueness among pending codes,
	// so a collision surfaces as ErrCodeTaken and we simply draw again.
	backoff := retry.WithMaxRetries(codeAttempts-1, retry.NewConstant(time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		code, err := newPaymentCode()
		if err != nil {
			return err
		}
		ord = &model.Order{
			ID:           uuid.NewString(),
			PaymentCode:  code,
			MerchantID:   req.MerchantID,
			MerchantName: name,
			Amount:       req.Amount,
			Description:  description,
			Status:       model.OrderPending,
			CreatedAt:    now,
			ExpiresAt:    now.Add(model.OrderTTL),
		}
		if err := e.store.InsertOrder(ctx, ord); err != nil {
			if errors.Is(err, model.ErrCodeTaken) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrCodeTaken) {
			return nil, fmt.Errorf("%w: could not reserve a payment code after %d attempts", model.ErrConflict, codeAttempts)
		}
		return nil, err
	}
	return ord, nil
}

// OrderStatus returns the order as seen right now, transitioning it to
// expired first if its code has lapsed while still pending.
func (e *Engine) OrderStatus(ctx context.Context, orderID string) (*model.Order, error) {
	ord, err := e.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := e.expireIfDue(ctx, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

// LookupByCode resolves a payment code to its order summary. Only pending
// orders are visible through their code; any other status is an error naming
// the reason, and reading never mutates a non-pending order further.
func (e *Engine) LookupByCode(ctx context.Context, code string) (*model.CodeSummary, error) {
	ord, err := e.store.OrderByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := e.expireIfDue(ctx, ord); err != nil {
		return nil, err
	}
	if ord.Status != model.OrderPending {
		return nil, notPendingErr(ord.Status)
	}
	return &model.CodeSummary{
		OrderID:      ord.ID,
		MerchantName: ord.MerchantName,
		Amount:       ord.Amount,
		Description:  ord.Description,
		ExpiresAt:    ord.ExpiresAt,
	}, nil
}

func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	ord, err := e.store.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := e.expireIfDue(ctx, ord); err != nil {
		return err
	}
	if ord.Status != model.OrderPending {
		return notPendingErr(ord.Status)
	}
	won, err := e.store.MarkOrderCancelled(ctx, orderID)
	if err != nil {
		return err
	}
	if !won {
		// Lost a race against settlement or expiry; report what the order
		// became rather than a bare conflict.
		if cur, err := e.store.OrderByID(ctx, orderID); err == nil {
			return notPendingErr(cur.Status)
		}
		return model.ErrConflict
	}
	ord.Status = model.OrderCancelled
	return nil
}

// expireIfDue applies the lazy pending→expired transition. The conditional
// store update means concurrent readers race harmlessly: whoever wins writes
// the transition, everyone observes expired.
func (e *Engine) expireIfDue(ctx context.Context, ord *model.Order) error {
	if ord.Status != model.OrderPending || !ord.ExpiredAt(e.now()) {
		return nil
	}
	won, err := e.store.MarkOrderExpired(ctx, ord.ID)
	if err != nil {
		return err
	}
	if won {
		ord.Status = model.OrderExpired
		return nil
	}
	// Someone else moved the order first (settled it, or expired it before us).
	cur, err := e.store.OrderByID(ctx, ord.ID)
	if err != nil {
		return err
	}
	*ord = *cur
	return nil
}

func notPendingErr(status model.OrderStatus) error {
	switch status {
	case model.OrderCompleted:
		return fmt.Errorf("%w: order was already settled", model.ErrOrderNotPending)
	case model.OrderExpired:
		return fmt.Errorf("%w: order has expired", model.ErrOrderNotPending)
	case model.OrderCancelled:
		return fmt.Errorf("%w: order was cancelled", model.ErrOrderNotPending)
	default:
		return fmt.Errorf("%w: order is %s", model.ErrOrderNotPending, status)
	}
}
