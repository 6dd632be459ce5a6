// Package alert keeps each budget-threshold crossing to at most one
// notification inside a rolling window.
package alert

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendguard/spendguard/internal/model"
)

// Thresholds are the checked usage percentages, ascending.
var Thresholds = []int{80, 90, 100, 110, 120}

// Window is how long a sent alert suppresses re-sends.
const Window = 24 * time.Hour

// storageKey is the fixed key the sent-alert list persists under.
const storageKey = "sent_budget_alerts"

// EligibleThreshold returns the highest threshold at or below the usage
// percentage. Lower, already-passed thresholds are never re-alerted once a
// higher one is reached.
func EligibleThreshold(usage float64) (int, bool) {
	eligible := 0
	for _, t := range Thresholds {
		if usage >= float64(t) {
			eligible = t
		}
	}
	return eligible, eligible != 0
}

// KV is the persistent key/value surface the dedup list lives in.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Dedup is the sent-alert bookkeeping store. Built once per session and
// shared by reference; the persisted list is pruned to the window on every
// access.
type Dedup struct {
	mu  sync.Mutex
	kv  KV
	now func() time.Time
	log zerolog.Logger
}

// NewDedup returns a store over kv. A nil clock means the system clock.
func NewDedup(kv KV, log zerolog.Logger, now func() time.Time) *Dedup {
	if now == nil {
		now = time.Now
	}
	return &Dedup{
		kv:  kv,
		now: now,
		log: log.With().Str("component", "alert").Logger(),
	}
}

// HasAlertBeenSent reports whether an alert for (budgetID, threshold) went
// out inside the window.
func (d *Dedup) HasAlertBeenSent(budgetID string, threshold int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := d.now().Add(-Window)
	for _, a := range d.load() {
		if a.BudgetID == budgetID && a.Threshold == threshold && a.Timestamp.After(cutoff) {
			return true
		}
	}
	return false
}

// MarkSent records a dispatched alert, pruning entries older than the
// window first. Call it only after the notification actually went out.
func (d *Dedup) MarkSent(budgetID string, threshold int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	cutoff := now.Add(-Window)
	kept := make([]model.SentAlert, 0, 8)
	for _, a := range d.load() {
		if a.Timestamp.After(cutoff) {
			kept = append(kept, a)
		}
	}
	kept = append(kept, model.SentAlert{BudgetID: budgetID, Threshold: threshold, Timestamp: now})
	return d.save(kept)
}

// ClearBudgetAlerts removes all records for one budget. It runs on budget
// edit and delete so thresholds can re-trigger under the new rule.
func (d *Dedup) ClearBudgetAlerts(budgetID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	all := d.load()
	kept := make([]model.SentAlert, 0, len(all))
	for _, a := range all {
		if a.BudgetID != budgetID {
			kept = append(kept, a)
		}
	}
	return d.save(kept)
}

// ClearAllBudgetAlerts resets the store.
func (d *Dedup) ClearAllBudgetAlerts() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(nil)
}

// load reads the persisted list. A read failure or malformed JSON is
// logged and treated as an empty list rather than crashing the session.
func (d *Dedup) load() []model.SentAlert {
	data, err := d.kv.Get(storageKey)
	if err != nil {
		d.log.Warn().Err(err).Msg("reading sent alerts failed, treating as empty")
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var alerts []model.SentAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		d.log.Warn().Err(err).Msg("discarding malformed sent-alert list")
		return nil
	}
	return alerts
}

func (d *Dedup) save(alerts []model.SentAlert) error {
	if alerts == nil {
		alerts = []model.SentAlert{}
	}
	data, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encoding sent alerts: %w", err)
	}
	if err := d.kv.Set(storageKey, data); err != nil {
		return fmt.Errorf("persisting sent alerts: %w", err)
	}
	return nil
}
