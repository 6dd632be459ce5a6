package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage threshold alert records",
}

var alertsClearCmd = &cobra.Command{
	Use:   "clear [budget-id]",
	Short: "Clear sent-alert records, for one budget or all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAlertsClear,
}

func init() {
	alertsCmd.AddCommand(alertsClearCmd)
	rootCmd.AddCommand(alertsCmd)
}

func runAlertsClear(_ *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		if err := a.dedup.ClearBudgetAlerts(args[0]); err != nil {
			return err
		}
		fmt.Println("cleared alerts for", args[0])
		return nil
	}

	if err := a.dedup.ClearAllBudgetAlerts(); err != nil {
		return err
	}
	fmt.Println("cleared all alerts")
	return nil
}
