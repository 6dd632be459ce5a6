// Package store provides the SQLite-backed local persistence for budgets,
// transactions, and the alert-dedup list.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MetaKV exposes the meta table as a key/value store. It backs the
// alert-dedup list.
type MetaKV struct {
	store *Store
}

// KV returns a key/value view over the meta table.
func (s *Store) KV() *MetaKV {
	return &MetaKV{store: s}
}

// Get returns the value for key, or nil when absent.
func (m *MetaKV) Get(key string) ([]byte, error) {
	var value []byte
	err := m.store.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value under key.
func (m *MetaKV) Set(key string, value []byte) error {
	_, err := m.store.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func decodeAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanBudget(scan func(dest ...any) error) (model.BudgetRule, error) {
	var (
		b        model.BudgetRule
		walletID sql.NullString
		amount   string
		start    string
		end      string
		created  string
		updated  string
		active   int
	)
	err := scan(&b.ID, &b.Name, &b.CategoryID, &walletID, &amount, (*string)(&b.PeriodType),
		&start, &end, &active, (*string)(&b.LimitType), &b.Notes, &created, &updated)
	if err != nil {
		return model.BudgetRule{}, err
	}
	if walletID.Valid {
		b.WalletID = walletID.String
	}
	b.Amount = decodeAmount(amount)
	b.PeriodStart = decodeTime(start)
	b.PeriodEnd = decodeTime(end)
	b.IsActive = active != 0
	b.CreatedAt = decodeTime(created)
	b.UpdatedAt = decodeTime(updated)
	return b, nil
}
