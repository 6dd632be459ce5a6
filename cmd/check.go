package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/model"
	"github.com/spendguard/spendguard/internal/period"
)

var (
	checkCategory string
	checkWallet   string
	checkAmount   string
	checkDate     string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a prospective expense against the budget rules",
	Long:  "Evaluates which spending-limit rules apply to the expense and whether it would be blocked, warned about, or allowed.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkCategory, "category", "c", "", "Category ID (required)")
	checkCmd.Flags().StringVarP(&checkWallet, "wallet", "w", "", "Wallet ID")
	checkCmd.Flags().StringVarP(&checkAmount, "amount", "a", "", "Amount in ₫ (required)")
	checkCmd.Flags().StringVar(&checkDate, "date", "", "Transaction date (YYYY-MM-DD, default today)")
	_ = checkCmd.MarkFlagRequired("category")
	_ = checkCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(checkCmd)
}

func parseProspective() (budget.ProspectiveTransaction, error) {
	amount, err := decimal.NewFromString(checkAmount)
	if err != nil {
		return budget.ProspectiveTransaction{}, fmt.Errorf("invalid amount %q: %w", checkAmount, err)
	}

	date := time.Now().In(period.Location)
	if checkDate != "" {
		date, err = time.ParseInLocation("2006-01-02", checkDate, period.Location)
		if err != nil {
			return budget.ProspectiveTransaction{}, fmt.Errorf("invalid date %q: %w", checkDate, err)
		}
	}

	return budget.ProspectiveTransaction{
		CategoryID: checkCategory,
		WalletID:   checkWallet,
		Type:       model.TypeExpense,
		Amount:     amount,
		Date:       date,
	}, nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	tx, err := parseProspective()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	decision, err := a.evaluator.Check(cmd.Context(), tx)
	if err != nil {
		return err
	}

	printDecision(decision)
	return nil
}

func printDecision(d budget.Decision) {
	switch {
	case !d.Allowed:
		fmt.Println("BLOCKED:", d.Message)
	case d.Message != "":
		fmt.Println("allowed with warning:", d.Message)
	default:
		fmt.Println("allowed")
	}
}
