package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paycode/internal/model"
)

// InsertOrder reserves the order's payment code atomically: a partial unique
// index on (payment_code) WHERE status = 'pending' makes the insert itself
// the uniqueness check, so two concurrent creations of the same code cannot
// both land.
func (s *Store) InsertOrder(ctx context.Context, ord *model.Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (id, payment_code, merchant_id, merchant_name, amount,
		                    description, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ord.ID, ord.PaymentCode, ord.MerchantID, ord.MerchantName, ord.Amount,
		ord.Description, ord.Status, ord.CreatedAt, ord.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", model.ErrCodeTaken, ord.PaymentCode)
		}
		return persistence("insert order", err)
	}
	return nil
}

func (s *Store) OrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	return s.selectOrder(ctx, `WHERE id = $1`, orderID)
}

// OrderByCode matches the pending holder of a code first; if none is
// pending, it falls back to the most recent order that ever held the code so
// the caller can report why it is no longer payable.
func (s *Store) OrderByCode(ctx context.Context, code string) (*model.Order, error) {
	ord, err := s.selectOrder(ctx, `WHERE payment_code = $1 AND status = 'pending'`, code)
	if err == nil {
		return ord, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	return s.selectOrder(ctx, `WHERE payment_code = $1 ORDER BY created_at DESC LIMIT 1`, code)
}

func (s *Store) selectOrder(ctx context.Context, where string, arg any) (*model.Order, error) {
	var ord model.Order
	var paymentID *string
	err := s.db.QueryRow(ctx, `
		SELECT id, payment_code, merchant_id, merchant_name, amount, description,
		       status, payment_id, created_at, expires_at
		FROM orders `+where, arg).Scan(
		&ord.ID, &ord.PaymentCode, &ord.MerchantID, &ord.MerchantName, &ord.Amount,
		&ord.Description, &ord.Status, &paymentID, &ord.CreatedAt, &ord.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order", model.ErrNotFound)
	}
	if err != nil {
		return nil, persistence("select order", err)
	}
	if paymentID != nil {
		ord.PaymentID = *paymentID
	}
	return &ord, nil
}

// MarkOrderExpired is a conditional transition: only a still-pending order
// moves. Returns whether this call performed the transition.
func (s *Store) MarkOrderExpired(ctx context.Context, orderID string) (bool, error) {
	return s.transitionOrder(ctx, orderID, model.OrderExpired)
}

func (s *Store) MarkOrderCancelled(ctx context.Context, orderID string) (bool, error) {
	return s.transitionOrder(ctx, orderID, model.OrderCancelled)
}

func (s *Store) transitionOrder(ctx context.Context, orderID string, to model.OrderStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1 AND status = 'pending'`,
		orderID, to)
	if err != nil {
		return false, persistence("transition order", err)
	}
	return tag.RowsAffected() == 1, nil
}
