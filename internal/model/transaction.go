package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType separates money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// TransactionRecord is a single wallet movement as stored by the data API.
// The core reads these; it never mutates them.
type TransactionRecord struct {
	ID                  string
	WalletID            string
	CategoryID          string
	Type                TransactionType
	Amount              decimal.Decimal
	Date                time.Time
	ExcludedFromReports bool
	Note                string
}

// Wallet is a money container (cash, bank account, e-wallet).
type Wallet struct {
	ID       string
	Name     string
	Currency string
	Balance  decimal.Decimal
}
