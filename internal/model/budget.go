// Package model holds the domain types shared across the tracker core.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType identifies the civil-calendar cycle a budget covers.
type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
)

// LimitType controls what happens when a budget is exceeded.
type LimitType string

const (
	// LimitHard blocks the transaction outright.
	LimitHard LimitType = "hard"
	// LimitSoft warns but lets the transaction through.
	LimitSoft LimitType = "soft"
	// LimitNone tracks usage without intervening.
	LimitNone LimitType = ""
)

// UsageStatus buckets a budget's usage percentage into severity bands.
type UsageStatus string

const (
	StatusSafe     UsageStatus = "safe"
	StatusWarning  UsageStatus = "warning"
	StatusDanger   UsageStatus = "danger"
	StatusCritical UsageStatus = "critical"
)

// BudgetRule is a user-defined spending limit for a category, optionally
// scoped to a single wallet, over a fixed period.
type BudgetRule struct {
	ID          string
	Name        string
	CategoryID  string
	WalletID    string // empty = applies to all wallets
	Amount      decimal.Decimal
	PeriodType  PeriodType
	PeriodStart time.Time
	PeriodEnd   time.Time
	IsActive    bool
	LimitType   LimitType
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesToWallet reports whether the rule covers the given wallet.
// A rule without a wallet scope covers every wallet.
func (b BudgetRule) AppliesToWallet(walletID string) bool {
	return b.WalletID == "" || b.WalletID == walletID
}

// ContainsDate reports whether t falls inside the rule's period (inclusive).
func (b BudgetRule) ContainsDate(t time.Time) bool {
	return !t.Before(b.PeriodStart) && !t.After(b.PeriodEnd)
}

// Overlaps reports whether the rule's period intersects [start, end].
func (b BudgetRule) Overlaps(start, end time.Time) bool {
	return !b.PeriodEnd.Before(start) && !b.PeriodStart.After(end)
}

// BudgetEvaluation is the derived usage picture for one budget. It is
// computed on demand and never persisted.
type BudgetEvaluation struct {
	Budget          BudgetRule
	SpentAmount     decimal.Decimal
	UsagePercentage float64
	RemainingAmount decimal.Decimal
	Status          UsageStatus
}
