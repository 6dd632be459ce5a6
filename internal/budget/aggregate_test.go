package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/model"
	"github.com/spendguard/spendguard/internal/period"
)

func vnd(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func june(day int) time.Time {
	return time.Date(2025, time.June, day, 12, 0, 0, 0, period.Location)
}

func juneRule(amount int64) model.BudgetRule {
	return model.BudgetRule{
		ID:          "b1",
		Name:        "Ăn uống",
		CategoryID:  "food",
		Amount:      vnd(amount),
		PeriodType:  model.PeriodMonthly,
		PeriodStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, period.Location),
		PeriodEnd:   time.Date(2025, time.June, 30, 23, 59, 59, 0, period.Location),
		IsActive:    true,
	}
}

func expense(category, wallet string, amount int64, date time.Time) model.TransactionRecord {
	return model.TransactionRecord{
		WalletID:   wallet,
		CategoryID: category,
		Type:       model.TypeExpense,
		Amount:     vnd(amount),
		Date:       date,
	}
}

func TestSpentAmountFilters(t *testing.T) {
	rule := juneRule(1_000_000)

	txs := []model.TransactionRecord{
		expense("food", "cash", 100_000, june(5)),
		expense("food", "bank", 200_000, june(10)),
		expense("transport", "cash", 999_999, june(10)), // other category
		expense("food", "cash", 999_999, june(5).AddDate(0, -1, 0)), // outside period
		{WalletID: "cash", CategoryID: "food", Type: model.TypeIncome, Amount: vnd(500_000), Date: june(6)},
	}

	spent := SpentAmount(rule, txs)
	if !spent.Equal(vnd(300_000)) {
		t.Fatalf("spent = %s, want 300000", spent)
	}
}

func TestSpentAmountWalletScope(t *testing.T) {
	rule := juneRule(1_000_000)
	rule.WalletID = "cash"

	txs := []model.TransactionRecord{
		expense("food", "cash", 100_000, june(5)),
		expense("food", "bank", 200_000, june(10)), // other wallet
	}

	spent := SpentAmount(rule, txs)
	if !spent.Equal(vnd(100_000)) {
		t.Fatalf("wallet-scoped spent = %s, want 100000", spent)
	}
}

func TestSpentAmountUnaffectedByIrrelevantTransactions(t *testing.T) {
	rule := juneRule(1_000_000)
	base := []model.TransactionRecord{
		expense("food", "cash", 250_000, june(5)),
	}
	want := SpentAmount(rule, base)

	extra := [][]model.TransactionRecord{
		{expense("transport", "cash", 777_777, june(5))},
		{expense("food", "cash", 777_777, june(5).AddDate(0, 2, 0))},
		{{WalletID: "cash", CategoryID: "food", Type: model.TypeIncome, Amount: vnd(777_777), Date: june(5)}},
	}
	for i, txs := range extra {
		got := SpentAmount(rule, append(append([]model.TransactionRecord{}, base...), txs...))
		if !got.Equal(want) {
			t.Fatalf("case %d: spent changed from %s to %s", i, want, got)
		}
	}
}

func TestUsagePercentage(t *testing.T) {
	tests := []struct {
		spent, limit int64
		want         float64
	}{
		{200_000, 1_000_000, 20},
		{950_000, 1_000_000, 95},
		{1_200_000, 1_000_000, 120},
		{333_333, 1_000_000, 33.33},
		{100, 0, 0},
		{100, -5, 0},
	}
	for _, tc := range tests {
		got := UsagePercentage(vnd(tc.spent), vnd(tc.limit))
		if got != tc.want {
			t.Errorf("UsagePercentage(%d, %d) = %v, want %v", tc.spent, tc.limit, got, tc.want)
		}
	}
}

func TestStatusBoundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want model.UsageStatus
	}{
		{0, model.StatusSafe},
		{79.99, model.StatusSafe},
		{80, model.StatusWarning},
		{99.99, model.StatusWarning},
		{100, model.StatusDanger},
		{119.99, model.StatusDanger},
		{120, model.StatusCritical},
		{250, model.StatusCritical},
	}
	for _, tc := range tests {
		if got := StatusForUsage(tc.pct); got != tc.want {
			t.Errorf("StatusForUsage(%v) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestStatusMonotonic(t *testing.T) {
	rank := map[model.UsageStatus]int{
		model.StatusSafe:     0,
		model.StatusWarning:  1,
		model.StatusDanger:   2,
		model.StatusCritical: 3,
	}
	prev := -1
	for pct := 0.0; pct <= 200; pct += 0.5 {
		r := rank[StatusForUsage(pct)]
		if r < prev {
			t.Fatalf("severity decreased at %v%%", pct)
		}
		prev = r
	}
}

func TestEvaluate(t *testing.T) {
	rule := juneRule(1_000_000)
	txs := []model.TransactionRecord{
		expense("food", "cash", 1_200_000, june(5)),
	}

	ev := Evaluate(rule, txs)
	if ev.UsagePercentage != 120 {
		t.Fatalf("usage = %v, want 120", ev.UsagePercentage)
	}
	if ev.Status != model.StatusCritical {
		t.Fatalf("status = %s, want critical", ev.Status)
	}
	if !ev.RemainingAmount.Equal(vnd(-200_000)) {
		t.Fatalf("remaining = %s, want -200000 (never clamped here)", ev.RemainingAmount)
	}
}
