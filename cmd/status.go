package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show usage for every active budget",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	rules, err := a.budgets.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		fmt.Println("No active budgets. Add one with: spendguard budgets add")
		return nil
	}

	table := cli.Table{
		Title:   "Ngân sách",
		Headers: []string{"Budget", "Period", "Limit", "Spent", "Usage", "", "Status"},
	}

	for _, rule := range rules {
		txs, err := a.txs.ListByFilter(ctx, budget.TransactionFilter{
			CategoryID: rule.CategoryID,
			WalletID:   rule.WalletID,
			From:       rule.PeriodStart,
			To:         rule.PeriodEnd,
		})
		if err != nil {
			return err
		}

		ev := budget.Evaluate(rule, txs)

		name := rule.Name
		if name == "" {
			name = rule.CategoryID
		}
		table.Rows = append(table.Rows, []string{
			name,
			cli.FormatPeriod(rule.PeriodStart, rule.PeriodEnd),
			cli.FormatVND(rule.Amount),
			cli.FormatVND(ev.SpentAmount),
			cli.FormatPercent(ev.UsagePercentage),
			cli.RenderUsageBar(ev.UsagePercentage, 12),
			cli.StatusLabel(ev.Status),
		})

		if a.cfg.Notifications.Enabled {
			if _, err := a.notifier.Process(ctx, ev); err != nil {
				a.log.Warn().Err(err).Str("budget", rule.ID).Msg("alert dispatch failed")
			}
		}
	}

	fmt.Print(cli.RenderTable(table))
	return nil
}
