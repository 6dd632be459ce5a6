package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/cache"
	"github.com/spendguard/spendguard/internal/crosstab"
	"github.com/spendguard/spendguard/internal/model"
)

// ErrBudgetNotFound is returned for operations on unknown budget IDs.
var ErrBudgetNotFound = errors.New("store: budget not found")

// AlertClearer removes dedup records for a budget so its thresholds can
// re-trigger after an edit or delete.
type AlertClearer interface {
	ClearBudgetAlerts(budgetID string) error
}

// BudgetRepository persists budget rules. Every successful mutation
// invalidates the "budgets" cache namespace and broadcasts the same
// invalidation to other contexts of the session.
type BudgetRepository struct {
	store      *Store
	cache      *cache.Store
	sync       *crosstab.Sync
	alerts     AlertClearer
	categories budget.CategoryChecker
	now        func() time.Time
}

// NewBudgetRepository wires a repository. cache, sync, alerts, and
// categories may be nil when the corresponding hook is not needed.
func NewBudgetRepository(store *Store, c *cache.Store, s *crosstab.Sync, alerts AlertClearer, categories budget.CategoryChecker, now func() time.Time) *BudgetRepository {
	if now == nil {
		now = time.Now
	}
	return &BudgetRepository{
		store:      store,
		cache:      c,
		sync:       s,
		alerts:     alerts,
		categories: categories,
		now:        now,
	}
}

const budgetColumns = `id, name, category_id, wallet_id, amount, period_type,
	period_start, period_end, is_active, limit_type, notes, created_at, updated_at`

// ListActive returns all active budget rules.
func (r *BudgetRepository) ListActive(ctx context.Context) ([]model.BudgetRule, error) {
	return r.list(ctx, "WHERE is_active = 1")
}

// ListAll returns every budget rule, active or not.
func (r *BudgetRepository) ListAll(ctx context.Context) ([]model.BudgetRule, error) {
	return r.list(ctx, "")
}

func (r *BudgetRepository) list(ctx context.Context, where string) ([]model.BudgetRule, error) {
	query := fmt.Sprintf("SELECT %s FROM budgets %s ORDER BY period_start DESC", budgetColumns, where)
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.BudgetRule
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// Get returns one budget rule by ID.
func (r *BudgetRepository) Get(ctx context.Context, id string) (model.BudgetRule, error) {
	query := fmt.Sprintf("SELECT %s FROM budgets WHERE id = ?", budgetColumns)
	b, err := scanBudget(r.store.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return model.BudgetRule{}, ErrBudgetNotFound
	}
	if err != nil {
		return model.BudgetRule{}, err
	}
	return b, nil
}

// Create validates and inserts a rule, assigning an ID when empty.
func (r *BudgetRepository) Create(ctx context.Context, b model.BudgetRule) (model.BudgetRule, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := r.now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := r.validate(ctx, b); err != nil {
		return model.BudgetRule{}, err
	}

	_, err := r.store.db.ExecContext(ctx, `INSERT INTO budgets
		(id, name, category_id, wallet_id, amount, period_type,
		 period_start, period_end, is_active, limit_type, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.CategoryID, nullable(b.WalletID), b.Amount.String(), string(b.PeriodType),
		encodeTime(b.PeriodStart), encodeTime(b.PeriodEnd), boolToInt(b.IsActive),
		string(b.LimitType), b.Notes, encodeTime(b.CreatedAt), encodeTime(b.UpdatedAt),
	)
	if err != nil {
		return model.BudgetRule{}, fmt.Errorf("inserting budget: %w", err)
	}

	r.afterMutation("")
	return b, nil
}

// Update validates and rewrites a rule, then clears its alert records so
// thresholds can re-trigger under the new limits.
func (r *BudgetRepository) Update(ctx context.Context, b model.BudgetRule) (model.BudgetRule, error) {
	b.UpdatedAt = r.now()

	if err := r.validate(ctx, b); err != nil {
		return model.BudgetRule{}, err
	}

	res, err := r.store.db.ExecContext(ctx, `UPDATE budgets SET
		name = ?, category_id = ?, wallet_id = ?, amount = ?, period_type = ?,
		period_start = ?, period_end = ?, is_active = ?, limit_type = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		b.Name, b.CategoryID, nullable(b.WalletID), b.Amount.String(), string(b.PeriodType),
		encodeTime(b.PeriodStart), encodeTime(b.PeriodEnd), boolToInt(b.IsActive),
		string(b.LimitType), b.Notes, encodeTime(b.UpdatedAt), b.ID,
	)
	if err != nil {
		return model.BudgetRule{}, fmt.Errorf("updating budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.BudgetRule{}, ErrBudgetNotFound
	}

	r.afterMutation(b.ID)
	return b, nil
}

// Delete removes a rule and its alert records.
func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBudgetNotFound
	}

	r.afterMutation(id)
	return nil
}

// validate raises ValidationErrors before any write.
func (r *BudgetRepository) validate(ctx context.Context, b model.BudgetRule) error {
	existing, err := r.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("loading budgets for validation: %w", err)
	}
	verrs := budget.ValidateRule(b, existing, r.categories)
	if len(verrs) == 0 {
		return nil
	}
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// afterMutation runs the coherence hooks: drop the local cache namespace,
// hint peers to do the same, and reset dedup records for the touched
// budget.
func (r *BudgetRepository) afterMutation(budgetID string) {
	if r.cache != nil {
		r.cache.Invalidate("budgets")
	}
	if r.sync != nil {
		r.sync.BroadcastInvalidate("budgets")
	}
	if r.alerts != nil && budgetID != "" {
		_ = r.alerts.ClearBudgetAlerts(budgetID)
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
