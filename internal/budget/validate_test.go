package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/model"
)

type fakeCategories struct {
	expense map[string]bool
}

func (f *fakeCategories) IsExpenseCategory(id string) bool { return f.expense[id] }

func hasFieldError(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateRuleOK(t *testing.T) {
	rule := juneRule(1_000_000)
	cats := &fakeCategories{expense: map[string]bool{"food": true}}

	if errs := ValidateRule(rule, nil, cats); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

func TestValidateRuleBasics(t *testing.T) {
	rule := juneRule(1_000_000)
	rule.CategoryID = ""
	rule.Amount = decimal.Zero
	rule.PeriodType = "fortnightly"
	start := rule.PeriodStart
	rule.PeriodStart = rule.PeriodEnd
	rule.PeriodEnd = start

	errs := ValidateRule(rule, nil, nil)
	for _, field := range []string{"category", "amount", "period", "period_type"} {
		if !hasFieldError(errs, field) {
			t.Errorf("missing validation error for %s, got %v", field, errs)
		}
	}
}

func TestValidateRuleNonExpenseCategory(t *testing.T) {
	rule := juneRule(1_000_000)
	rule.CategoryID = "salary"
	cats := &fakeCategories{expense: map[string]bool{"food": true}}

	errs := ValidateRule(rule, nil, cats)
	if !hasFieldError(errs, "category") {
		t.Fatalf("expected non-expense category rejection, got %v", errs)
	}
}

func TestValidateRuleOverlap(t *testing.T) {
	existing := juneRule(1_000_000)
	existing.ID = "existing"

	rule := juneRule(500_000)
	rule.ID = "new"
	// Same category, same wallet scope, overlapping June period.

	errs := ValidateRule(rule, []model.BudgetRule{existing}, nil)
	if !hasFieldError(errs, "period") {
		t.Fatalf("expected overlap rejection, got %v", errs)
	}
}

func TestValidateRuleOverlapIgnoresOtherScopes(t *testing.T) {
	otherWallet := juneRule(1_000_000)
	otherWallet.ID = "w"
	otherWallet.WalletID = "bank"

	otherCategory := juneRule(1_000_000)
	otherCategory.ID = "c"
	otherCategory.CategoryID = "transport"

	inactive := juneRule(1_000_000)
	inactive.ID = "i"
	inactive.IsActive = false

	rule := juneRule(500_000)
	rule.ID = "new"

	errs := ValidateRule(rule, []model.BudgetRule{otherWallet, otherCategory, inactive}, nil)
	if hasFieldError(errs, "period") {
		t.Fatalf("rules in other scopes must not block creation: %v", errs)
	}
}

func TestValidateRuleOverlapSkipsSelfOnUpdate(t *testing.T) {
	rule := juneRule(500_000)
	rule.ID = "same"

	errs := ValidateRule(rule, []model.BudgetRule{rule}, nil)
	if hasFieldError(errs, "period") {
		t.Fatalf("a rule must not conflict with itself on update: %v", errs)
	}
}

func TestValidateInactiveRuleSkipsOverlap(t *testing.T) {
	existing := juneRule(1_000_000)
	existing.ID = "existing"

	rule := juneRule(500_000)
	rule.ID = "new"
	rule.IsActive = false

	errs := ValidateRule(rule, []model.BudgetRule{existing}, nil)
	if hasFieldError(errs, "period") {
		t.Fatalf("inactive rules may overlap: %v", errs)
	}
}
