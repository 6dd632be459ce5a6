package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/cache"
	"github.com/spendguard/spendguard/internal/crosstab"
	"github.com/spendguard/spendguard/internal/model"
)

// TransactionRepository persists wallet movements.
type TransactionRepository struct {
	store *Store
	cache *cache.Store
	sync  *crosstab.Sync
}

// NewTransactionRepository wires a repository; cache and sync may be nil.
func NewTransactionRepository(store *Store, c *cache.Store, s *crosstab.Sync) *TransactionRepository {
	return &TransactionRepository{store: store, cache: c, sync: s}
}

// ListByFilter returns transactions matching every set filter field.
func (r *TransactionRepository) ListByFilter(ctx context.Context, f budget.TransactionFilter) ([]model.TransactionRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.WalletID != "" {
		where = append(where, "wallet_id = ?")
		args = append(args, f.WalletID)
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if !f.From.IsZero() {
		where = append(where, "tx_date >= ?")
		args = append(args, encodeTime(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "tx_date <= ?")
		args = append(args, encodeTime(f.To))
	}

	query := "SELECT id, wallet_id, category_id, type, amount, tx_date, excluded, note FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY tx_date DESC"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txs []model.TransactionRecord
	for rows.Next() {
		var (
			t        model.TransactionRecord
			amount   string
			date     string
			excluded int
		)
		err := rows.Scan(&t.ID, &t.WalletID, &t.CategoryID, (*string)(&t.Type),
			&amount, &date, &excluded, &t.Note)
		if err != nil {
			return nil, err
		}
		t.Amount = decodeAmount(amount)
		t.Date = decodeTime(date)
		t.ExcludedFromReports = excluded != 0
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// Create inserts a transaction, assigning an ID when empty, and drops the
// derived transaction reads locally and across contexts.
func (r *TransactionRepository) Create(ctx context.Context, t model.TransactionRecord) (model.TransactionRecord, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	_, err := r.store.db.ExecContext(ctx, `INSERT INTO transactions
		(id, wallet_id, category_id, type, amount, tx_date, excluded, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.WalletID, t.CategoryID, string(t.Type), t.Amount.String(),
		encodeTime(t.Date), boolToInt(t.ExcludedFromReports), t.Note,
	)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("inserting transaction: %w", err)
	}

	if r.cache != nil {
		r.cache.Invalidate("transactions")
	}
	if r.sync != nil {
		r.sync.BroadcastInvalidate("transactions")
	}
	return t, nil
}

// CategoryRepository persists spending categories and answers the
// expense-category check budget validation needs.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository wires a repository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// Ensure upserts a category.
func (r *CategoryRepository) Ensure(ctx context.Context, id, name, kind string) error {
	_, err := r.store.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO categories (id, name, kind) VALUES (?, ?, ?)",
		id, name, kind)
	return err
}

// IsExpenseCategory reports whether the category exists and takes expenses.
func (r *CategoryRepository) IsExpenseCategory(id string) bool {
	var kind string
	err := r.store.db.QueryRow("SELECT kind FROM categories WHERE id = ?", id).Scan(&kind)
	if err != nil {
		// Unknown categories default to expense so ad-hoc setups are not
		// blocked from creating budgets.
		return true
	}
	return kind == "expense"
}
