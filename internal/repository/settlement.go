package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"paycode/internal/model"
)

// ExecuteSettlement performs the whole settlement as one Postgres
// transaction. The order row lock serializes attempts per order: the winner
// completes everything, every loser wakes up to a non-pending status. The
// account row locks serialize the balance read-modify-write per account.
func (s *Store) ExecuteSettlement(ctx context.Context, orderID, payerID, method string, now time.Time) (*model.SettleResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, persistence("begin settlement", err)
	}
	defer tx.Rollback(ctx)

	var (
		merchantID string
		amount     int64
		status     model.OrderStatus
		expiresAt  time.Time
	)
	err = tx.QueryRow(ctx, `
		SELECT merchant_id, amount, status, expires_at
		FROM orders WHERE id = $1 FOR UPDATE`,
		orderID).Scan(&merchantID, &amount, &status, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, persistence("lock order", err)
	}

	if status != model.OrderPending {
		return nil, fmt.Errorf("%w: order is %s", model.ErrOrderNotPending, status)
	}

	// The code can lapse between the caller's lookup and this lock. The
	// expired transition still has to land, so commit it before failing.
	if now.After(expiresAt) {
		if _, err := tx.Exec(ctx, `UPDATE orders SET status = 'expired' WHERE id = $1`, orderID); err != nil {
			return nil, persistence("expire order", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, persistence("commit expiry", err)
		}
		return nil, model.ErrPaymentExpired
	}

	balances, err := lockBalances(ctx, tx, payerID, merchantID)
	if err != nil {
		return nil, err
	}
	payerBalance := balances[payerID]
	merchantBalance := balances[merchantID]

	if payerBalance < amount {
		return nil, fmt.Errorf("%w: short by %d", model.ErrInsufficientFunds, amount-payerBalance)
	}

	paymentID := uuid.NewString()

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1 WHERE id = $2`, amount, payerID); err != nil {
		return nil, persistence("debit payer", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2`, amount, merchantID); err != nil {
		return nil, persistence("credit merchant", err)
	}

	if err := insertTransaction(ctx, tx, &model.TransactionRecord{
		ID:            uuid.NewString(),
		AccountID:     payerID,
		Type:          model.TxPaymentDebit,
		Amount:        -amount,
		BalanceBefore: payerBalance,
		BalanceAfter:  payerBalance - amount,
		OrderID:       orderID,
		PaymentID:     paymentID,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := insertTransaction(ctx, tx, &model.TransactionRecord{
		ID:            uuid.NewString(),
		AccountID:     merchantID,
		Type:          model.TxPaymentCredit,
		Amount:        amount,
		BalanceBefore: merchantBalance,
		BalanceAfter:  merchantBalance + amount,
		OrderID:       orderID,
		PaymentID:     paymentID,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO payments (id, order_id, payer_id, merchant_id, amount, method, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'completed', $7)`,
		paymentID, orderID, payerID, merchantID, amount, method, now); err != nil {
		return nil, persistence("insert payment", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET status = 'completed', payment_id = $2
		WHERE id = $1 AND status = 'pending'`,
		orderID, paymentID)
	if err != nil {
		return nil, persistence("complete order", err)
	}
	if tag.RowsAffected() != 1 {
		// Unreachable under the row lock above; kept as a hard stop so a
		// completed order can never lack its debit/credit.
		return nil, fmt.Errorf("%w: order %s changed under settlement", model.ErrConflict, orderID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistence("commit settlement", err)
	}
	s.invalidateBalances(ctx, payerID, merchantID)

	return &model.SettleResult{
		PaymentID:       paymentID,
		OrderID:         orderID,
		Amount:          amount,
		PayerNewBalance: payerBalance - amount,
		Status:          string(model.OrderCompleted),
		ProcessedAt:     now,
	}, nil
}

// ExecuteRecharge moves amount from the bank funding pool into a payer
// wallet, with the same single-transaction discipline as settlement.
func (s *Store) ExecuteRecharge(ctx context.Context, bankID, payerID string, amount int64, now time.Time) (*model.RechargeResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, persistence("begin recharge", err)
	}
	defer tx.Rollback(ctx)

	balances, err := lockBalances(ctx, tx, bankID, payerID)
	if err != nil {
		return nil, err
	}
	bankBalance := balances[bankID]
	payerBalance := balances[payerID]

	if bankBalance < amount {
		return nil, fmt.Errorf("%w: short by %d", model.ErrBankInsufficientFunds, amount-bankBalance)
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1 WHERE id = $2`, amount, bankID); err != nil {
		return nil, persistence("debit bank", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2`, amount, payerID); err != nil {
		return nil, persistence("credit payer", err)
	}

	txID := uuid.NewString()
	if err := insertTransaction(ctx, tx, &model.TransactionRecord{
		ID:            txID,
		AccountID:     payerID,
		Type:          model.TxRecharge,
		Amount:        amount,
		BalanceBefore: payerBalance,
		BalanceAfter:  payerBalance + amount,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistence("commit recharge", err)
	}
	s.invalidateBalances(ctx, bankID, payerID)

	return &model.RechargeResult{
		AmountAdded:     amount,
		PayerNewBalance: payerBalance + amount,
		BankBalance:     bankBalance - amount,
		TransactionID:   txID,
	}, nil
}

// lockBalances locks both account rows FOR UPDATE in id order so two
// transfers touching the same pair can never deadlock, and returns the
// balances read under the locks.
func lockBalances(ctx context.Context, tx pgx.Tx, a, b string) (map[string]int64, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	balances := make(map[string]int64, 2)
	for _, id := range []string{first, second} {
		var balance int64
		err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, id)
		}
		if err != nil {
			return nil, persistence("lock account", err)
		}
		balances[id] = balance
	}
	return balances, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, rec *model.TransactionRecord) error {
	var orderID, paymentID *string
	if rec.OrderID != "" {
		orderID = &rec.OrderID
	}
	if rec.PaymentID != "" {
		paymentID = &rec.PaymentID
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (id, account_id, type, amount, balance_before,
		                          balance_after, order_id, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.AccountID, rec.Type, rec.Amount, rec.BalanceBefore,
		rec.BalanceAfter, orderID, paymentID, rec.CreatedAt)
	if err != nil {
		return persistence("append transaction", err)
	}
	return nil
}
