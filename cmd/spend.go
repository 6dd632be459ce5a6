package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendguard/spendguard/internal/model"
)

var spendNote string

var spendCmd = &cobra.Command{
	Use:   "spend",
	Short: "Record an expense if the budget rules allow it",
	Long:  "Evaluates the expense against the spending-limit rules with a re-check immediately before the write, then records it locally.",
	RunE:  runSpend,
}

func init() {
	spendCmd.Flags().StringVarP(&checkCategory, "category", "c", "", "Category ID (required)")
	spendCmd.Flags().StringVarP(&checkWallet, "wallet", "w", "", "Wallet ID (required)")
	spendCmd.Flags().StringVarP(&checkAmount, "amount", "a", "", "Amount in ₫ (required)")
	spendCmd.Flags().StringVar(&checkDate, "date", "", "Transaction date (YYYY-MM-DD, default today)")
	spendCmd.Flags().StringVar(&spendNote, "note", "", "Note")
	_ = spendCmd.MarkFlagRequired("category")
	_ = spendCmd.MarkFlagRequired("wallet")
	_ = spendCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(spendCmd)
}

func runSpend(cmd *cobra.Command, _ []string) error {
	tx, err := parseProspective()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	record := func(ctx context.Context) error {
		_, err := a.txs.Create(ctx, model.TransactionRecord{
			WalletID:   tx.WalletID,
			CategoryID: tx.CategoryID,
			Type:       model.TypeExpense,
			Amount:     tx.Amount,
			Date:       tx.Date,
			Note:       spendNote,
		})
		return err
	}

	decision, err := a.evaluator.ConfirmAndRecord(cmd.Context(), tx, record)
	if err != nil {
		return err
	}

	printDecision(decision)
	if decision.Allowed {
		fmt.Println("recorded")
	}
	return nil
}
