package budget

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/model"
)

// ValidationError describes one invariant a rule violates. Validation runs
// before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("budget %s: %s", e.Field, e.Reason)
}

// CategoryChecker tells whether a category takes expenses. Budgets may
// only target expense categories.
type CategoryChecker interface {
	IsExpenseCategory(id string) bool
}

// ValidateRule checks a rule against its own invariants and against the
// existing rules for period overlap. existing should hold the current
// active rules; the rule's own ID is skipped so updates validate cleanly.
func ValidateRule(rule model.BudgetRule, existing []model.BudgetRule, categories CategoryChecker) []ValidationError {
	var errs []ValidationError

	if rule.CategoryID == "" {
		errs = append(errs, ValidationError{Field: "category", Reason: "category is required"})
	}
	if rule.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, ValidationError{Field: "amount", Reason: "amount must be positive"})
	}
	if rule.PeriodEnd.Before(rule.PeriodStart) {
		errs = append(errs, ValidationError{Field: "period", Reason: "period end precedes period start"})
	}
	switch rule.PeriodType {
	case model.PeriodWeekly, model.PeriodMonthly, model.PeriodYearly:
	default:
		errs = append(errs, ValidationError{
			Field:  "period_type",
			Reason: fmt.Sprintf("unknown period type %q", rule.PeriodType),
		})
	}
	if categories != nil && rule.CategoryID != "" && !categories.IsExpenseCategory(rule.CategoryID) {
		errs = append(errs, ValidationError{
			Field:  "category",
			Reason: fmt.Sprintf("category %s is not an expense category", rule.CategoryID),
		})
	}

	if !rule.IsActive {
		return errs
	}
	for _, other := range existing {
		if other.ID == rule.ID || !other.IsActive {
			continue
		}
		if other.CategoryID != rule.CategoryID || other.WalletID != rule.WalletID {
			continue
		}
		if other.Overlaps(rule.PeriodStart, rule.PeriodEnd) {
			errs = append(errs, ValidationError{
				Field:  "period",
				Reason: fmt.Sprintf("overlaps active budget %s for the same category/wallet", other.ID),
			})
		}
	}
	return errs
}
