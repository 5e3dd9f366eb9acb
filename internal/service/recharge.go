package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"paycode/internal/model"
	"paycode/internal/repository"
)

// Recharge tops up a payer wallet from the bank funding pool. The bank is a
// finite account: a top-up that would overdraw it fails without touching
// either balance.
func (e *Engine) Recharge(ctx context.Context, req model.RechargeRequest) (*model.RechargeResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: recharge amount must be positive, got %d", model.ErrInvalidAmount, req.Amount)
	}

	payer, err := e.store.Account(ctx, req.PayerID)
	if err != nil {
		return nil, err
	}
	if payer.Kind != model.KindPayer {
		return nil, fmt.Errorf("%w: account %s is not a payer wallet", model.ErrNotFound, req.PayerID)
	}

	res, err := e.store.ExecuteRecharge(ctx, e.bank, req.PayerID, req.Amount, e.now())
	if err != nil {
		return nil, err
	}

	e.publish(repository.TopicWalletRecharged, model.WalletRechargedEvent{
		PayerID:       req.PayerID,
		Amount:        res.AmountAdded,
		NewBalance:    res.PayerNewBalance,
		TransactionID: res.TransactionID,
		CreatedAt:     e.now(),
	})
	return res, nil
}

func (e *Engine) CreateAccount(ctx context.Context, kind model.AccountKind, name string) (*model.Account, error) {
	switch kind {
	case model.KindPayer, model.KindMerchant:
	default:
		return nil, fmt.Errorf("%w: account kind must be payer or merchant", model.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", model.ErrValidation)
	}
	acc := &model.Account{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      name,
		Balance:   0,
		CreatedAt: e.now(),
	}
	if err := e.store.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (e *Engine) Balance(ctx context.Context, accountID string) (int64, error) {
	return e.store.Balance(ctx, accountID)
}

// History returns an account's ledger slice oldest first. Offset/limit make
// the sequence restartable from any position.
func (e *Engine) History(ctx context.Context, accountID string, offset, limit int) ([]model.TransactionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return e.store.History(ctx, accountID, offset, limit)
}
