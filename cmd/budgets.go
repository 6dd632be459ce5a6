package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendguard/spendguard/internal/cli"
	"github.com/spendguard/spendguard/internal/model"
	"github.com/spendguard/spendguard/internal/period"
)

var (
	budgetName     string
	budgetCategory string
	budgetWallet   string
	budgetAmount   string
	budgetPeriod   string
	budgetStart    string
	budgetLimit    string
	budgetNotes    string
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Manage budget rules",
	RunE:  runBudgetsList,
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all budget rules",
	RunE:  runBudgetsList,
}

var budgetsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a budget rule",
	RunE:  runBudgetsAdd,
}

var budgetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a budget rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsDelete,
}

func init() {
	budgetsAddCmd.Flags().StringVar(&budgetName, "name", "", "Display name")
	budgetsAddCmd.Flags().StringVarP(&budgetCategory, "category", "c", "", "Category ID (required)")
	budgetsAddCmd.Flags().StringVarP(&budgetWallet, "wallet", "w", "", "Wallet ID (all wallets when omitted)")
	budgetsAddCmd.Flags().StringVarP(&budgetAmount, "amount", "a", "", "Limit amount in ₫ (required)")
	budgetsAddCmd.Flags().StringVarP(&budgetPeriod, "period", "p", "monthly", "Period: weekly, monthly, yearly")
	budgetsAddCmd.Flags().StringVar(&budgetStart, "start", "", "Anchor date inside the period (YYYY-MM-DD, default today)")
	budgetsAddCmd.Flags().StringVar(&budgetLimit, "limit", "", "Limit type: hard, soft, or empty for tracking only")
	budgetsAddCmd.Flags().StringVar(&budgetNotes, "notes", "", "Notes")
	_ = budgetsAddCmd.MarkFlagRequired("category")
	_ = budgetsAddCmd.MarkFlagRequired("amount")

	budgetsCmd.AddCommand(budgetsListCmd, budgetsAddCmd, budgetsDeleteCmd)
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgetsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rules, err := a.budgets.ListAll(cmd.Context())
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		fmt.Println("No budgets.")
		return nil
	}

	table := cli.Table{
		Headers: []string{"ID", "Name", "Category", "Wallet", "Limit", "Period", "Type", "Active"},
	}
	for _, b := range rules {
		wallet := b.WalletID
		if wallet == "" {
			wallet = "(all)"
		}
		limitType := string(b.LimitType)
		if limitType == "" {
			limitType = "track"
		}
		active := "yes"
		if !b.IsActive {
			active = "no"
		}
		table.Rows = append(table.Rows, []string{
			b.ID, b.Name, b.CategoryID, wallet,
			cli.FormatVND(b.Amount),
			cli.FormatPeriod(b.PeriodStart, b.PeriodEnd),
			limitType, active,
		})
	}
	fmt.Print(cli.RenderTable(table))
	return nil
}

func runBudgetsAdd(cmd *cobra.Command, _ []string) error {
	amount, err := decimal.NewFromString(budgetAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", budgetAmount, err)
	}

	anchor := time.Now().In(period.Location)
	if budgetStart != "" {
		anchor, err = time.ParseInLocation("2006-01-02", budgetStart, period.Location)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", budgetStart, err)
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	pt := model.PeriodType(budgetPeriod)
	r := a.calc.ForType(pt, anchor)

	created, err := a.budgets.Create(cmd.Context(), model.BudgetRule{
		Name:        budgetName,
		CategoryID:  budgetCategory,
		WalletID:    budgetWallet,
		Amount:      amount,
		PeriodType:  pt,
		PeriodStart: r.Start,
		PeriodEnd:   r.End,
		IsActive:    true,
		LimitType:   model.LimitType(budgetLimit),
		Notes:       budgetNotes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created budget %s (%s)\n", created.ID, cli.FormatPeriod(created.PeriodStart, created.PeriodEnd))
	return nil
}

func runBudgetsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.budgets.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("deleted", args[0])
	return nil
}
