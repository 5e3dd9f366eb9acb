package model

import "time"

// All monetary amounts are int64 minor units (cents).

type AccountKind string

const (
	KindPayer    AccountKind = "payer"
	KindMerchant AccountKind = "merchant"
	KindBank     AccountKind = "bank"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderExpired   OrderStatus = "expired"
	OrderCancelled OrderStatus = "cancelled"
)

type TransactionType string

const (
	TxRecharge      TransactionType = "recharge"
	TxPaymentDebit  TransactionType = "payment_debit"
	TxPaymentCredit TransactionType = "payment_credit"
	TxRefund        TransactionType = "refund"
)

// OrderTTL is how long a payment code stays valid after order creation.
const OrderTTL = 15 * time.Minute

// PaymentCodeLen is the length of the public numeric payment code.
const PaymentCodeLen = 8

type Account struct {
	ID        string      `json:"id"`
	Kind      AccountKind `json:"kind"`
	Name      string      `json:"name"`
	Balance   int64       `json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
}

type Order struct {
	ID           string      `json:"order_id"`
	PaymentCode  string      `json:"payment_code"`
	MerchantID   string      `json:"merchant_id"`
	MerchantName string      `json:"merchant_name"`
	Amount       int64       `json:"amount"`
	Description  string      `json:"description"`
	Status       OrderStatus `json:"status"`
	PaymentID    string      `json:"payment_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// ExpiredAt reports whether the order's payment code has lapsed at time t.
// Only meaningful while the order is still pending.
func (o *Order) ExpiredAt(t time.Time) bool {
	return t.After(o.ExpiresAt)
}

type Payment struct {
	ID          string    `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	PayerID     string    `json:"payer_id"`
	MerchantID  string    `json:"merchant_id"`
	Amount      int64     `json:"amount"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
}

type TransactionRecord struct {
	ID            string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"` // signed: debits are negative
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	OrderID       string          `json:"order_id,omitempty"`
	PaymentID     string          `json:"payment_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateOrderRequest struct {
	MerchantID   string `json:"merchant_id"`
	MerchantName string `json:"merchant_name"`
	Amount       int64  `json:"amount"`
	Description  string `json:"description"`
}

type SettleRequest struct {
	PaymentCode string `json:"payment_code"`
	PayerID     string `json:"payer_id"`
	Method      string `json:"method"`
}

type SettleResult struct {
	PaymentID       string    `json:"payment_id"`
	OrderID         string    `json:"order_id"`
	Amount          int64     `json:"amount"`
	PayerNewBalance int64     `json:"payer_new_balance"`
	Status          string    `json:"status"`
	ProcessedAt     time.Time `json:"processed_at"`
}

type RechargeRequest struct {
	PayerID string `json:"payer_id"`
	Amount  int64  `json:"amount"`
}

type RechargeResult struct {
	AmountAdded     int64  `json:"amount_added"`
	PayerNewBalance int64  `json:"payer_new_balance"`
	BankBalance     int64  `json:"bank_balance"`
	TransactionID   string `json:"transaction_id"`
}

// CodeSummary is what a payer sees when querying a pending payment code.
type CodeSummary struct {
	OrderID      string    `json:"order_id"`
	MerchantName string    `json:"merchant_name"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type PaymentCompletedEvent struct {
	PaymentID   string    `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	PayerID     string    `json:"payer_id"`
	MerchantID  string    `json:"merchant_id"`
	Amount      int64     `json:"amount"`
	Method      string    `json:"method"`
	ProcessedAt time.Time `json:"processed_at"`
}

type WalletRechargedEvent struct {
	PayerID       string    `json:"payer_id"`
	Amount        int64     `json:"amount"`
	NewBalance    int64     `json:"new_balance"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}
