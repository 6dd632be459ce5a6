// Package budget computes spend aggregates and decides whether prospective
// expenses pass the user's spending-limit rules.
package budget

import (
	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/model"
)

var hundred = decimal.NewFromInt(100)

// SpentAmount sums the expenses that count against a rule: matching
// category, date inside the rule's period, and matching wallet when the
// rule is wallet scoped.
func SpentAmount(rule model.BudgetRule, txs []model.TransactionRecord) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range txs {
		if t.Type != model.TypeExpense {
			continue
		}
		if t.CategoryID != rule.CategoryID {
			continue
		}
		if !rule.ContainsDate(t.Date) {
			continue
		}
		if !rule.AppliesToWallet(t.WalletID) {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	return spent
}

// UsagePercentage returns spent/limit as a percentage rounded to 2dp,
// or 0 when the limit is not positive.
func UsagePercentage(spent, limit decimal.Decimal) float64 {
	if limit.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct, _ := spent.Div(limit).Mul(hundred).Round(2).Float64()
	return pct
}

// StatusForUsage maps a usage percentage onto the severity bands:
// <80 safe, [80,100) warning, [100,120) danger, >=120 critical.
func StatusForUsage(pct float64) model.UsageStatus {
	switch {
	case pct >= 120:
		return model.StatusCritical
	case pct >= 100:
		return model.StatusDanger
	case pct >= 80:
		return model.StatusWarning
	default:
		return model.StatusSafe
	}
}

// Evaluate builds the full usage picture for one rule against a
// transaction snapshot. RemainingAmount may be negative; callers decide
// whether to clamp.
func Evaluate(rule model.BudgetRule, txs []model.TransactionRecord) model.BudgetEvaluation {
	spent := SpentAmount(rule, txs)
	pct := UsagePercentage(spent, rule.Amount)
	return model.BudgetEvaluation{
		Budget:          rule,
		SpentAmount:     spent,
		UsagePercentage: pct,
		RemainingAmount: rule.Amount.Sub(spent),
		Status:          StatusForUsage(pct),
	}
}
