package model

import "time"

// SentAlert records that a threshold notification went out for a budget.
// Dedup bookkeeping only; entries older than the rolling window are pruned.
type SentAlert struct {
	BudgetID  string    `json:"budget_id"`
	Threshold int       `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}
