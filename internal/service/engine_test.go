package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycode/internal/model"
)

// memStore is a mutex-guarded in-memory Store. Its Execute* methods and
// conditional transitions follow the same all-or-nothing and
// compare-and-swap semantics as the Postgres implementation, so the engine's
// concurrency behaviour is exercised for real.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	orders   map[string]*model.Order
	payments map[string]*model.Payment
	ledger   []model.TransactionRecord

	codeRejections int // make the next N order inserts collide
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*model.Account),
		orders:   make(map[string]*model.Order),
		payments: make(map[string]*model.Payment),
	}
}

func (s *memStore) addAccount(id string, kind model.AccountKind, balance int64) {
	s.accounts[id] = &model.Account{ID: id, Kind: kind, Name: id, Balance: balance}
}

func (s *memStore) CreateAccount(ctx context.Context, acc *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *acc
	s.accounts[acc.ID] = &cp
	return nil
}

func (s *memStore) Account(ctx context.Context, id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, id)
	}
	cp := *acc
	return &cp, nil
}

func (s *memStore) Balance(ctx context.Context, id string) (int64, error) {
	acc, err := s.Account(ctx, id)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (s *memStore) History(ctx context.Context, accountID string, offset, limit int) ([]model.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TransactionRecord
	for _, rec := range s.ledger {
		if rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) InsertOrder(ctx context.Context, ord *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeRejections > 0 {
		s.codeRejections--
		return fmt.Errorf("%w: %s", model.ErrCodeTaken, ord.PaymentCode)
	}
	for _, existing := range s.orders {
		if existing.Status == model.OrderPending && existing.PaymentCode == ord.PaymentCode {
			return fmt.Errorf("%w: %s", model.ErrCodeTaken, ord.PaymentCode)
		}
	}
	cp := *ord
	s.orders[ord.ID] = &cp
	return nil
}

func (s *memStore) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ord, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order", model.ErrNotFound)
	}
	cp := *ord
	return &cp, nil
}

func (s *memStore) OrderByCode(ctx context.Context, code string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Order
	for _, ord := range s.orders {
		if ord.PaymentCode != code {
			continue
		}
		if ord.Status == model.OrderPending {
			cp := *ord
			return &cp, nil
		}
		if latest == nil || ord.CreatedAt.After(latest.CreatedAt) {
			latest = ord
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: order", model.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

func (s *memStore) MarkOrderExpired(ctx context.Context, id string) (bool, error) {
	return s.transition(id, model.OrderExpired)
}

func (s *memStore) MarkOrderCancelled(ctx context.Context, id string) (bool, error) {
	return s.transition(id, model.OrderCancelled)
}

func (s *memStore) transition(id string, to model.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ord, ok := s.orders[id]
	if !ok || ord.Status != model.OrderPending {
		return false, nil
	}
	ord.Status = to
	return true, nil
}

func (s *memStore) ExecuteSettlement(ctx context.Context, orderID, payerID, method string, now time.Time) (*model.SettleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ord, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, orderID)
	}
	if ord.Status != model.OrderPending {
		return nil, fmt.Errorf("%w: order is %s", model.ErrOrderNotPending, ord.Status)
	}
	if now.After(ord.ExpiresAt) {
		ord.Status = model.OrderExpired
		return nil, model.ErrPaymentExpired
	}

	payer, ok := s.accounts[payerID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, payerID)
	}
	merchant, ok := s.accounts[ord.MerchantID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, ord.MerchantID)
	}
	if payer.Balance < ord.Amount {
		return nil, fmt.Errorf("%w: short by %d", model.ErrInsufficientFunds, ord.Amount-payer.Balance)
	}

	paymentID := fmt.Sprintf("pay-%s", orderID)
	s.ledger = append(s.ledger,
		model.TransactionRecord{
			ID: paymentID + "-debit", AccountID: payerID, Type: model.TxPaymentDebit,
			Amount: -ord.Amount, BalanceBefore: payer.Balance, BalanceAfter: payer.Balance - ord.Amount,
			OrderID: orderID, PaymentID: paymentID, CreatedAt: now,
		},
		model.TransactionRecord{
			ID: paymentID + "-credit", AccountID: ord.MerchantID, Type: model.TxPaymentCredit,
			Amount: ord.Amount, BalanceBefore: merchant.Balance, BalanceAfter: merchant.Balance + ord.Amount,
			OrderID: orderID, PaymentID: paymentID, CreatedAt: now,
		},
	)
	payer.Balance -= ord.Amount
	merchant.Balance += ord.Amount
	s.payments[paymentID] = &model.Payment{
		ID: paymentID, OrderID: orderID, PayerID: payerID, MerchantID: ord.MerchantID,
		Amount: ord.Amount, Method: method, Status: "completed", ProcessedAt: now,
	}
	ord.Status = model.OrderCompleted
	ord.PaymentID = paymentID

	return &model.SettleResult{
		PaymentID:       paymentID,
		OrderID:         orderID,
		Amount:          ord.Amount,
		PayerNewBalance: payer.Balance,
		Status:          string(model.OrderCompleted),
		ProcessedAt:     now,
	}, nil
}

func (s *memStore) ExecuteRecharge(ctx context.Context, bankID, payerID string, amount int64, now time.Time) (*model.RechargeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bank, ok := s.accounts[bankID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, bankID)
	}
	payer, ok := s.accounts[payerID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, payerID)
	}
	if bank.Balance < amount {
		return nil, fmt.Errorf("%w: short by %d", model.ErrBankInsufficientFunds, amount-bank.Balance)
	}

	txID := fmt.Sprintf("tx-%d", len(s.ledger))
	s.ledger = append(s.ledger, model.TransactionRecord{
		ID: txID, AccountID: payerID, Type: model.TxRecharge,
		Amount: amount, BalanceBefore: payer.Balance, BalanceAfter: payer.Balance + amount,
		CreatedAt: now,
	})
	bank.Balance -= amount
	payer.Balance += amount

	return &model.RechargeResult{
		AmountAdded:     amount,
		PayerNewBalance: payer.Balance,
		BankBalance:     bank.Balance,
		TransactionID:   txID,
	}, nil
}

func (s *memStore) PaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: payment %s", model.ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

type memBus struct {
	mu        sync.Mutex
	published map[string]int
}

func (b *memBus) Publish(topic string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.published == nil {
		b.published = make(map[string]int)
	}
	b.published[topic]++
	return nil
}

func (b *memBus) count(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published[topic]
}

func testEngine(t *testing.T) (*Engine, *memStore, *memBus) {
	t.Helper()
	store := newMemStore()
	store.addAccount("bank", model.KindBank, 1_000_00)
	store.addAccount("alice", model.KindPayer, 100_00)
	store.addAccount("shop", model.KindMerchant, 0)
	bus := &memBus{}
	e := NewEngine(store, bus, "bank")
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	return e, store, bus
}

func setClock(e *Engine, t time.Time) {
	e.now = func() time.Time { return t }
}

func TestCreateOrder_InvalidAmount(t *testing.T) {
	e, _, _ := testEngine(t)
	_, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 0})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: -5})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestCreateOrder_UnknownMerchant(t *testing.T) {
	e, _, _ := testEngine(t)
	_, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "ghost", Amount: 100})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateOrder_Pending(t *testing.T) {
	e, _, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{
		MerchantID: "shop", Amount: 25_00, Description: "two coffees",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, ord.Status)
	assert.Len(t, ord.PaymentCode, model.PaymentCodeLen)
	assert.Equal(t, ord.CreatedAt.Add(model.OrderTTL), ord.ExpiresAt)
	assert.Equal(t, "shop", ord.MerchantName)
}

func TestCreateOrder_RetriesOnCodeCollision(t *testing.T) {
	e, store, _ := testEngine(t)
	store.codeRejections = 2

	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, ord.Status)
}

func TestCreateOrder_CollisionExhaustionIsConflict(t *testing.T) {
	e, store, _ := testEngine(t)
	store.codeRejections = 100

	_, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 100})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestLookupByCode_NotFound(t *testing.T) {
	e, _, _ := testEngine(t)
	_, err := e.LookupByCode(context.Background(), "00000000")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLookupByCode_PendingSummary(t *testing.T) {
	e, _, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{
		MerchantID: "shop", Amount: 25_00, Description: "two coffees",
	})
	require.NoError(t, err)

	sum, err := e.LookupByCode(context.Background(), ord.PaymentCode)
	require.NoError(t, err)
	assert.Equal(t, ord.ID, sum.OrderID)
	assert.Equal(t, int64(25_00), sum.Amount)
	assert.Equal(t, "two coffees", sum.Description)
}

func TestLookupByCode_LazyExpiry(t *testing.T) {
	e, store, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 100})
	require.NoError(t, err)

	setClock(e, ord.ExpiresAt.Add(time.Second))

	_, err = e.LookupByCode(context.Background(), ord.PaymentCode)
	assert.ErrorIs(t, err, model.ErrOrderNotPending)
	assert.Contains(t, err.Error(), "expired")

	stored, _ := store.OrderByID(context.Background(), ord.ID)
	assert.Equal(t, model.OrderExpired, stored.Status)

	// Repeated reads keep reporting the same reason without further writes.
	_, err2 := e.LookupByCode(context.Background(), ord.PaymentCode)
	assert.ErrorIs(t, err2, model.ErrOrderNotPending)
	assert.Equal(t, err.Error(), err2.Error())
}

func TestOrderStatus_LazyExpiry(t *testing.T) {
	e, _, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 100})
	require.NoError(t, err)

	got, err := e.OrderStatus(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, got.Status)

	setClock(e, ord.ExpiresAt.Add(time.Minute))
	got, err = e.OrderStatus(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderExpired, got.Status)
}

func TestSettle_HappyPathThenNotPending(t *testing.T) {
	e, store, bus := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 25_00})
	require.NoError(t, err)

	res, err := e.Settle(context.Background(), model.SettleRequest{
		PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25_00), res.Amount)
	assert.Equal(t, int64(75_00), res.PayerNewBalance)
	assert.NotEmpty(t, res.PaymentID)

	merchantBal, _ := store.Balance(context.Background(), "shop")
	assert.Equal(t, int64(25_00), merchantBal)

	stored, _ := store.OrderByID(context.Background(), ord.ID)
	assert.Equal(t, model.OrderCompleted, stored.Status)
	assert.Equal(t, res.PaymentID, stored.PaymentID)

	payment, err := e.PaymentByID(context.Background(), res.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, ord.ID, payment.OrderID)

	assert.Equal(t, 1, bus.count("payments.completed"))

	// Second attempt on the same code loses.
	_, err = e.Settle(context.Background(), model.SettleRequest{
		PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
	})
	assert.ErrorIs(t, err, model.ErrOrderNotPending)
	assert.Contains(t, err.Error(), "settled")

	aliceBal, _ := store.Balance(context.Background(), "alice")
	assert.Equal(t, int64(75_00), aliceBal)
}

func TestSettle_InsufficientFunds(t *testing.T) {
	e, store, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 500_00})
	require.NoError(t, err)

	_, err = e.Settle(context.Background(), model.SettleRequest{
		PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
	})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "short by 40000")

	// Nothing moved, the order is still payable.
	aliceBal, _ := store.Balance(context.Background(), "alice")
	assert.Equal(t, int64(100_00), aliceBal)
	stored, _ := store.OrderByID(context.Background(), ord.ID)
	assert.Equal(t, model.OrderPending, stored.Status)
}

func TestSettle_ExpiryRecheckedAtSettlement(t *testing.T) {
	e, store, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 100})
	require.NoError(t, err)

	// Clock advances between the lookup and the atomic step: the first
	// reads see a live order, the settlement itself sees it lapsed.
	times := []time.Time{
		ord.ExpiresAt.Add(-time.Minute),
		ord.ExpiresAt.Add(time.Second),
	}
	call := 0
	e.now = func() time.Time {
		now := times[call]
		if call < len(times)-1 {
			call++
		}
		return now
	}

	_, err = e.Settle(context.Background(), model.SettleRequest{
		PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
	})
	assert.ErrorIs(t, err, model.ErrPaymentExpired)

	stored, _ := store.OrderByID(context.Background(), ord.ID)
	assert.Equal(t, model.OrderExpired, stored.Status)

	aliceBal, _ := store.Balance(context.Background(), "alice")
	assert.Equal(t, int64(100_00), aliceBal)
}

func TestSettle_ConcurrentAttemptsSettleExactlyOnce(t *testing.T) {
	e, store, bus := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 10_00})
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Settle(context.Background(), model.SettleRequest{
				PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, model.ErrOrderNotPending), errors.Is(err, model.ErrConflict):
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	assert.Equal(t, 1, successes)

	aliceBal, _ := store.Balance(context.Background(), "alice")
	assert.Equal(t, int64(90_00), aliceBal)
	shopBal, _ := store.Balance(context.Background(), "shop")
	assert.Equal(t, int64(10_00), shopBal)

	records, _ := store.History(context.Background(), "alice", 0, 100)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, len(store.payments))
	assert.Equal(t, 1, bus.count("payments.completed"))
}

func TestRecharge_MovesBankToPayer(t *testing.T) {
	e, store, bus := testEngine(t)

	res, err := e.Recharge(context.Background(), model.RechargeRequest{PayerID: "alice", Amount: 50_00})
	require.NoError(t, err)
	assert.Equal(t, int64(50_00), res.AmountAdded)
	assert.Equal(t, int64(150_00), res.PayerNewBalance)
	assert.Equal(t, int64(950_00), res.BankBalance)
	assert.NotEmpty(t, res.TransactionID)

	records, _ := store.History(context.Background(), "alice", 0, 10)
	require.Len(t, records, 1)
	assert.Equal(t, model.TxRecharge, records[0].Type)
	assert.Equal(t, int64(100_00), records[0].BalanceBefore)
	assert.Equal(t, int64(150_00), records[0].BalanceAfter)

	assert.Equal(t, 1, bus.count("wallet.recharged"))
}

func TestRecharge_BankShortfallChangesNothing(t *testing.T) {
	e, store, _ := testEngine(t)
	store.accounts["bank"].Balance = 40_00

	_, err := e.Recharge(context.Background(), model.RechargeRequest{PayerID: "alice", Amount: 50_00})
	assert.ErrorIs(t, err, model.ErrBankInsufficientFunds)
	assert.Contains(t, err.Error(), "short by 1000")

	aliceBal, _ := store.Balance(context.Background(), "alice")
	assert.Equal(t, int64(100_00), aliceBal)
	bankBal, _ := store.Balance(context.Background(), "bank")
	assert.Equal(t, int64(40_00), bankBal)
	records, _ := store.History(context.Background(), "alice", 0, 10)
	assert.Empty(t, records)
}

func TestRecharge_InvalidAmount(t *testing.T) {
	e, _, _ := testEngine(t)
	_, err := e.Recharge(context.Background(), model.RechargeRequest{PayerID: "alice", Amount: 0})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestCreateAccount(t *testing.T) {
	e, store, _ := testEngine(t)

	acc, err := e.CreateAccount(context.Background(), model.KindPayer, "bob")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, int64(0), acc.Balance)

	stored, err := store.Account(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.Name)

	_, err = e.CreateAccount(context.Background(), model.KindBank, "another bank")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = e.CreateAccount(context.Background(), model.KindPayer, "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCancelOrder(t *testing.T) {
	e, store, _ := testEngine(t)
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 100})
	require.NoError(t, err)

	require.NoError(t, e.CancelOrder(context.Background(), ord.ID))
	stored, _ := store.OrderByID(context.Background(), ord.ID)
	assert.Equal(t, model.OrderCancelled, stored.Status)

	// Cancelled orders can neither be cancelled again nor settled.
	err = e.CancelOrder(context.Background(), ord.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotPending)

	_, err = e.Settle(context.Background(), model.SettleRequest{
		PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
	})
	assert.ErrorIs(t, err, model.ErrOrderNotPending)
	assert.Contains(t, err.Error(), "cancelled")
}

// Conservation: value only enters the payer/merchant economy through
// recharges (bank→payer) and only moves payer→merchant through settlements.
func TestConservationAcrossMixedOperations(t *testing.T) {
	e, store, _ := testEngine(t)

	total := func() int64 {
		store.mu.Lock()
		defer store.mu.Unlock()
		var sum int64
		for _, acc := range store.accounts {
			sum += acc.Balance
		}
		return sum
	}
	before := total()

	_, err := e.Recharge(context.Background(), model.RechargeRequest{PayerID: "alice", Amount: 200_00})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 30_00})
		require.NoError(t, err)
		_, err = e.Settle(context.Background(), model.SettleRequest{
			PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
		})
		require.NoError(t, err)
	}

	// One failed settlement must not move anything either.
	ord, err := e.CreateOrder(context.Background(), model.CreateOrderRequest{MerchantID: "shop", Amount: 9_999_00})
	require.NoError(t, err)
	_, err = e.Settle(context.Background(), model.SettleRequest{
		PaymentCode: ord.PaymentCode, PayerID: "alice", Method: "wallet",
	})
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	assert.Equal(t, before, total())

	aliceBal, _ := store.Balance(context.Background(), "alice")
	shopBal, _ := store.Balance(context.Background(), "shop")
	assert.Equal(t, int64(100_00+200_00-5*30_00), aliceBal)
	assert.Equal(t, int64(5*30_00), shopBal)
}

func TestHistory_OldestFirstAndRestartable(t *testing.T) {
	e, _, _ := testEngine(t)

	for i := 0; i < 3; i++ {
		_, err := e.Recharge(context.Background(), model.RechargeRequest{PayerID: "alice", Amount: int64(i+1) * 100})
		require.NoError(t, err)
	}

	all, err := e.History(context.Background(), "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(100), all[0].Amount)
	assert.Equal(t, int64(300), all[2].Amount)

	rest, err := e.History(context.Background(), "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, all[1].ID, rest[0].ID)
}
