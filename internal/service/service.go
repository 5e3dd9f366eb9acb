package service

import (
	"context"
	"time"

	"paycode/internal/model"
	"paycode/internal/repository"
)

// PaymentService defines the business operations of the engine.
// All transport layers (HTTP, NATS) depend on this interface, not on the
// concrete implementation.
type PaymentService interface {
	CreateAccount(ctx context.Context, kind model.AccountKind, name string) (*model.Account, error)
	Balance(ctx context.Context, accountID string) (int64, error)
	History(ctx context.Context, accountID string, offset, limit int) ([]model.TransactionRecord, error)

	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	OrderStatus(ctx context.Context, orderID string) (*model.Order, error)
	LookupByCode(ctx context.Context, code string) (*model.CodeSummary, error)
	CancelOrder(ctx context.Context, orderID string) error

	Settle(ctx context.Context, req model.SettleRequest) (*model.SettleResult, error)
	Recharge(ctx context.Context, req model.RechargeRequest) (*model.RechargeResult, error)
	PaymentByID(ctx context.Context, paymentID string) (*model.Payment, error)
}

// Store is the durable state the engine runs against. The Execute* methods are
// each a single all-or-nothing unit: every balance mutation, ledger append and
// status transition inside them becomes visible together or not at all.
type Store interface {
	CreateAccount(ctx context.Context, acc *model.Account) error
	Account(ctx context.Context, accountID string) (*model.Account, error)
	Balance(ctx context.Context, accountID string) (int64, error)
	History(ctx context.Context, accountID string, offset, limit int) ([]model.TransactionRecord, error)

	// InsertOrder fails with model.ErrCodeTaken when another pending order
	// already holds the same payment code.
	InsertOrder(ctx context.Context, ord *model.Order) error
	OrderByID(ctx context.Context, orderID string) (*model.Order, error)
	OrderByCode(ctx context.Context, code string) (*model.Order, error)
	// MarkOrderExpired and MarkOrderCancelled transition pending orders only.
	// They report whether this call won the transition.
	MarkOrderExpired(ctx context.Context, orderID string) (bool, error)
	MarkOrderCancelled(ctx context.Context, orderID string) (bool, error)

	ExecuteSettlement(ctx context.Context, orderID, payerID, method string, now time.Time) (*model.SettleResult, error)
	ExecuteRecharge(ctx context.Context, bankID, payerID string, amount int64, now time.Time) (*model.RechargeResult, error)
	PaymentByID(ctx context.Context, paymentID string) (*model.Payment, error)
}

// Engine implements PaymentService on top of a Store and a message bus.
type Engine struct {
	store Store
	bus   repository.MessageBus
	bank  string // bank account id, the recharge funding pool
	now   func() time.Time
}

func NewEngine(store Store, bus repository.MessageBus, bankAccountID string) *Engine {
	return &Engine{
		store: store,
		bus:   bus,
		bank:  bankAccountID,
		now:   time.Now,
	}
}

var _ PaymentService = (*Engine)(nil)
