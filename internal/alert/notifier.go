package alert

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/spendguard/spendguard/internal/cli"
	"github.com/spendguard/spendguard/internal/model"
	"github.com/spendguard/spendguard/internal/notify"
)

// Notifier turns budget evaluations into threshold notifications, gated by
// the dedup store. Only the highest threshold at or below the current
// usage is considered per evaluation.
type Notifier struct {
	dedup      *Dedup
	dispatcher notify.Dispatcher
	log        zerolog.Logger
}

// NewNotifier wires a notifier.
func NewNotifier(dedup *Dedup, dispatcher notify.Dispatcher, log zerolog.Logger) *Notifier {
	return &Notifier{
		dedup:      dedup,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "alert").Logger(),
	}
}

// Process dispatches at most one notification for the evaluation. It
// returns true when a notification actually went out. The send record is
// written only after a successful dispatch, so a failed send can retry on
// the next evaluation cycle.
func (n *Notifier) Process(ctx context.Context, ev model.BudgetEvaluation) (bool, error) {
	threshold, ok := EligibleThreshold(ev.UsagePercentage)
	if !ok {
		return false, nil
	}
	if n.dedup.HasAlertBeenSent(ev.Budget.ID, threshold) {
		return false, nil
	}

	title, message := alertText(ev, threshold)
	meta := map[string]string{
		"budget_id": ev.Budget.ID,
		"threshold": strconv.Itoa(threshold),
		"status":    string(ev.Status),
	}
	if err := n.dispatcher.Send(ctx, title, message, meta); err != nil {
		return false, fmt.Errorf("dispatching budget alert: %w", err)
	}
	if err := n.dedup.MarkSent(ev.Budget.ID, threshold); err != nil {
		// The notification went out; losing the record only risks one
		// duplicate inside the window.
		n.log.Warn().Err(err).Str("budget", ev.Budget.ID).Msg("recording sent alert failed")
	}
	return true, nil
}

func alertText(ev model.BudgetEvaluation, threshold int) (title, message string) {
	name := ev.Budget.Name
	if name == "" {
		name = ev.Budget.CategoryID
	}

	switch {
	case threshold >= 120:
		title = "Ngân sách vượt nghiêm trọng"
	case threshold >= 100:
		title = "Ngân sách đã vượt"
	default:
		title = "Ngân sách sắp chạm hạn mức"
	}

	message = fmt.Sprintf("%q đạt %s hạn mức: đã chi %s / %s, còn lại %s",
		name,
		cli.FormatPercent(ev.UsagePercentage),
		cli.FormatVND(ev.SpentAmount),
		cli.FormatVND(ev.Budget.Amount),
		cli.FormatVND(ev.RemainingAmount))
	return title, message
}
