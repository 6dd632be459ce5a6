// Package source assembles the budget and transaction data sources the
// evaluator reads, fronted by the session cache with
// stale-while-revalidate semantics.
package source

import (
	"context"
	"time"

	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/cache"
	"github.com/spendguard/spendguard/internal/model"
)

// Budgets caches an underlying budget source under the "budgets"
// namespace, so Invalidate("budgets") drops every derived read.
type Budgets struct {
	inner budget.BudgetSource
	cache *cache.Store
	ttl   time.Duration
	stale time.Duration
}

// NewBudgets wraps inner with caching.
func NewBudgets(inner budget.BudgetSource, c *cache.Store, ttl, stale time.Duration) *Budgets {
	return &Budgets{inner: inner, cache: c, ttl: ttl, stale: stale}
}

// ListActive returns the active rules, cached.
func (b *Budgets) ListActive(ctx context.Context) ([]model.BudgetRule, error) {
	key := cache.Key("budgets", map[string]any{"active": true})
	return cache.FetchWithRefresh(ctx, b.cache, key, b.inner.ListActive, b.ttl, b.stale)
}

// Transactions caches an underlying transaction source under the
// "transactions" namespace, keyed by the filter.
type Transactions struct {
	inner budget.TransactionSource
	cache *cache.Store
	ttl   time.Duration
	stale time.Duration
}

// NewTransactions wraps inner with caching.
func NewTransactions(inner budget.TransactionSource, c *cache.Store, ttl, stale time.Duration) *Transactions {
	return &Transactions{inner: inner, cache: c, ttl: ttl, stale: stale}
}

// ListByFilter returns matching transactions, cached per filter.
func (t *Transactions) ListByFilter(ctx context.Context, f budget.TransactionFilter) ([]model.TransactionRecord, error) {
	params := map[string]any{}
	if f.WalletID != "" {
		params["wallet_id"] = f.WalletID
	}
	if f.CategoryID != "" {
		params["category_id"] = f.CategoryID
	}
	if f.Type != "" {
		params["type"] = string(f.Type)
	}
	if !f.From.IsZero() {
		params["from"] = f.From.UTC().Format(time.RFC3339)
	}
	if !f.To.IsZero() {
		params["to"] = f.To.UTC().Format(time.RFC3339)
	}

	key := cache.Key("transactions", params)
	fetch := func(ctx context.Context) ([]model.TransactionRecord, error) {
		return t.inner.ListByFilter(ctx, f)
	}
	return cache.FetchWithRefresh(ctx, t.cache, key, fetch, t.ttl, t.stale)
}
