package budget

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/cli"
	"github.com/spendguard/spendguard/internal/model"
)

// ProspectiveTransaction is an expense the user is about to record.
type ProspectiveTransaction struct {
	CategoryID          string
	WalletID            string
	Type                model.TransactionType
	Amount              decimal.Decimal
	Date                time.Time
	ExcludedFromReports bool
}

// Decision is the evaluator's verdict. Rule is nil when no rule applied;
// Message is empty for a clean allow, a warning for soft limits, and the
// rejection reason for hard limits.
type Decision struct {
	Allowed bool
	Rule    *model.BudgetRule
	Message string
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	WalletID   string
	CategoryID string
	Type       model.TransactionType
	From       time.Time
	To         time.Time
}

// TransactionSource lists transaction records, typically cache-backed.
type TransactionSource interface {
	ListByFilter(ctx context.Context, f TransactionFilter) ([]model.TransactionRecord, error)
}

// BudgetSource lists the active budget rules.
type BudgetSource interface {
	ListActive(ctx context.Context) ([]model.BudgetRule, error)
}

// Evaluator resolves the most restrictive applicable rule for a
// prospective expense. A single Check call runs to completion against the
// snapshot it fetched; nothing stops that snapshot from going stale before
// the transaction is written, which is what ConfirmAndRecord is for.
type Evaluator struct {
	budgets      BudgetSource
	transactions TransactionSource
	log          zerolog.Logger
}

// NewEvaluator wires an evaluator from its data sources.
func NewEvaluator(budgets BudgetSource, transactions TransactionSource, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		budgets:      budgets,
		transactions: transactions,
		log:          log.With().Str("component", "evaluator").Logger(),
	}
}

// Check decides allow/deny/warn for the transaction.
//
// Income and report-excluded transactions pass without rule checks. Among
// matching rules, wallet-specific ones sort before general ones, ties by
// most recent period start. An exceeded hard limit rejects regardless of
// sort position; soft limits warn with the first exceeded rule in sorted
// order.
func (e *Evaluator) Check(ctx context.Context, tx ProspectiveTransaction) (Decision, error) {
	if tx.Type == model.TypeIncome || tx.ExcludedFromReports {
		return Decision{Allowed: true}, nil
	}

	rules, err := e.budgets.ListActive(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("listing active budgets: %w", err)
	}

	matching := make([]model.BudgetRule, 0, len(rules))
	for _, r := range rules {
		if r.CategoryID != tx.CategoryID {
			continue
		}
		if !r.AppliesToWallet(tx.WalletID) {
			continue
		}
		if !r.ContainsDate(tx.Date) {
			continue
		}
		matching = append(matching, r)
	}
	if len(matching) == 0 {
		return Decision{Allowed: true}, nil
	}

	sort.SliceStable(matching, func(i, j int) bool {
		iScoped := matching[i].WalletID != ""
		jScoped := matching[j].WalletID != ""
		if iScoped != jScoped {
			return iScoped
		}
		return matching[i].PeriodStart.After(matching[j].PeriodStart)
	})

	type exceeded struct {
		rule  model.BudgetRule
		spent decimal.Decimal
	}
	var hard, soft *exceeded

	for _, r := range matching {
		txs, err := e.transactions.ListByFilter(ctx, TransactionFilter{
			CategoryID: r.CategoryID,
			WalletID:   r.WalletID,
			From:       r.PeriodStart,
			To:         r.PeriodEnd,
		})
		if err != nil {
			return Decision{}, fmt.Errorf("listing transactions for budget %s: %w", r.ID, err)
		}

		spent := SpentAmount(r, txs)
		projected := spent.Add(tx.Amount)
		if !projected.GreaterThan(r.Amount) {
			continue
		}

		switch r.LimitType {
		case model.LimitHard:
			if hard == nil {
				hard = &exceeded{rule: r, spent: spent}
			}
		case model.LimitSoft:
			if soft == nil {
				soft = &exceeded{rule: r, spent: spent}
			}
		}
	}

	if hard != nil {
		rule := hard.rule
		e.log.Info().Str("budget", rule.ID).Msg("hard limit rejection")
		return Decision{
			Allowed: false,
			Rule:    &rule,
			Message: limitMessage("vượt hạn mức", rule, hard.spent),
		}, nil
	}
	if soft != nil {
		rule := soft.rule
		return Decision{
			Allowed: true,
			Rule:    &rule,
			Message: limitMessage("sắp vượt hạn mức", rule, soft.spent),
		}, nil
	}
	return Decision{Allowed: true}, nil
}

// RecordFunc persists the transaction once the decision allows it.
type RecordFunc func(ctx context.Context) error

// ConfirmAndRecord re-checks against a fresh snapshot immediately before
// writing, closing most of the window between an earlier Check and the
// write. The decision returned is the one the write was gated on.
func (e *Evaluator) ConfirmAndRecord(ctx context.Context, tx ProspectiveTransaction, record RecordFunc) (Decision, error) {
	d, err := e.Check(ctx, tx)
	if err != nil {
		return Decision{}, err
	}
	if !d.Allowed {
		return d, nil
	}
	if err := record(ctx); err != nil {
		return d, fmt.Errorf("recording transaction: %w", err)
	}
	return d, nil
}

func limitMessage(verb string, rule model.BudgetRule, spent decimal.Decimal) string {
	name := rule.Name
	if name == "" {
		name = rule.CategoryID
	}
	return fmt.Sprintf("Ngân sách %q %s: đã chi %s / %s, còn lại %s",
		name, verb,
		cli.FormatVND(spent),
		cli.FormatVND(rule.Amount),
		cli.FormatVND(rule.Amount.Sub(spent)))
}
