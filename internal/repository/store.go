package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"paycode/internal/model"
)

// Store is the durable home of accounts, orders, payments and the
// transaction ledger. Postgres is authoritative; Redis is a read-through
// balance cache invalidated after every committed balance mutation.
type Store struct {
	db    *pgxpool.Pool
	cache *redis.Client
}

func NewStore(db *pgxpool.Pool, cache *redis.Client) *Store {
	return &Store{db: db, cache: cache}
}

func balanceKey(accountID string) string {
	return fmt.Sprintf("balance:%s", accountID)
}

// balanceCacheTTL bounds how long a warmed balance can outlive a concurrent
// invalidation. A warm that lands after a writer's DEL would otherwise pin
// the pre-mutation balance until the account's next mutation.
const balanceCacheTTL = 30 * time.Second

// persistence wraps unexpected storage failures so callers can treat them as
// a single retryable kind without matching driver errors.
func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrPersistence, op, err)
}

func (s *Store) CreateAccount(ctx context.Context, acc *model.Account) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (id, kind, name, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Kind, acc.Name, acc.Balance, acc.CreatedAt)
	if err != nil {
		return persistence("insert account", err)
	}
	return nil
}

func (s *Store) Account(ctx context.Context, accountID string) (*model.Account, error) {
	var acc model.Account
	err := s.db.QueryRow(ctx, `
		SELECT id, kind, name, balance, created_at FROM accounts WHERE id = $1`,
		accountID).Scan(&acc.ID, &acc.Kind, &acc.Name, &acc.Balance, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, accountID)
	}
	if err != nil {
		return nil, persistence("select account", err)
	}
	return &acc, nil
}

// Balance reads through the cache. On a miss it fetches the authoritative
// balance from Postgres and warms the cache. Writers DEL the key after
// commit, but the warm can race that DEL, so the entry also expires on its
// own after balanceCacheTTL.
func (s *Store) Balance(ctx context.Context, accountID string) (int64, error) {
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, balanceKey(accountID)).Int64(); err == nil {
			return v, nil
		}
	}

	var balance int64
	err := s.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: account %s", model.ErrNotFound, accountID)
	}
	if err != nil {
		return 0, persistence("select balance", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, balanceKey(accountID), balance, balanceCacheTTL).Err(); err != nil {
			slog.Warn("balance cache warm failed", "account_id", accountID, "error", err)
		}
	}
	return balance, nil
}

// invalidateBalances drops cached balances after a committed mutation. A
// failed DEL only means the next read pays a cache round-trip more.
func (s *Store) invalidateBalances(ctx context.Context, accountIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		keys[i] = balanceKey(id)
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("balance cache invalidation failed", "keys", keys, "error", err)
	}
}

// History returns an account's ledger entries oldest first. Ordering by
// (created_at, id) keeps the sequence stable and restartable across pages.
func (s *Store) History(ctx context.Context, accountID string, offset, limit int) ([]model.TransactionRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, account_id, type, amount, balance_before, balance_after,
		       COALESCE(order_id, ''), COALESCE(payment_id, ''), created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, persistence("select transactions", err)
	}
	defer rows.Close()

	var records []model.TransactionRecord
	for rows.Next() {
		var rec model.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Type, &rec.Amount,
			&rec.BalanceBefore, &rec.BalanceAfter, &rec.OrderID, &rec.PaymentID, &rec.CreatedAt); err != nil {
			return nil, persistence("scan transaction", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("iterate transactions", err)
	}
	return records, nil
}

func (s *Store) PaymentByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	var p model.Payment
	err := s.db.QueryRow(ctx, `
		SELECT id, order_id, payer_id, merchant_id, amount, method, status, processed_at
		FROM payments WHERE id = $1`,
		paymentID).Scan(&p.ID, &p.OrderID, &p.PayerID, &p.MerchantID, &p.Amount,
		&p.Method, &p.Status, &p.ProcessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: payment %s", model.ErrNotFound, paymentID)
	}
	if err != nil {
		return nil, persistence("select payment", err)
	}
	return &p, nil
}
