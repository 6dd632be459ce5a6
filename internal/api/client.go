// Package api provides the client for the managed data API the tracker
// backend runs on. It is the remote source of budget rules and
// transaction records; the cache sits in front of it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrNotAuthenticated indicates there is no usable session. It always
	// surfaces synchronously to the caller and is never swallowed.
	ErrNotAuthenticated = errors.New("api: not authenticated (missing or expired session)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("api: rate limited")
)

// Client talks to the data API with a session key.
type Client struct {
	baseURL    string
	sessionKey string
	http       *http.Client
}

// NewClient creates a client. Returns nil if the session key is empty;
// callers treat a nil client as "not signed in".
func NewClient(baseURL, sessionKey string) *Client {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		return nil
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessionKey: sessionKey,
		http:       &http.Client{},
	}
}

type budgetDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CategoryID  string          `json:"category_id"`
	WalletID    string          `json:"wallet_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodType  string          `json:"period_type"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	IsActive    bool            `json:"is_active"`
	LimitType   string          `json:"limit_type,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

type transactionDTO struct {
	ID         string          `json:"id"`
	WalletID   string          `json:"wallet_id"`
	CategoryID string          `json:"category_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Excluded   bool            `json:"excluded_from_reports,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// ListActive fetches the active budget rules.
func (c *Client) ListActive(ctx context.Context) ([]model.BudgetRule, error) {
	var dtos []budgetDTO
	if err := c.getJSON(ctx, "/v1/budgets?active=true", &dtos); err != nil {
		return nil, err
	}

	rules := make([]model.BudgetRule, 0, len(dtos))
	for _, d := range dtos {
		rules = append(rules, model.BudgetRule{
			ID:          d.ID,
			Name:        d.Name,
			CategoryID:  d.CategoryID,
			WalletID:    d.WalletID,
			Amount:      d.Amount,
			PeriodType:  model.PeriodType(d.PeriodType),
			PeriodStart: d.PeriodStart,
			PeriodEnd:   d.PeriodEnd,
			IsActive:    d.IsActive,
			LimitType:   model.LimitType(d.LimitType),
			Notes:       d.Notes,
		})
	}
	return rules, nil
}

// ListByFilter fetches transactions matching the filter.
func (c *Client) ListByFilter(ctx context.Context, f budget.TransactionFilter) ([]model.TransactionRecord, error) {
	q := url.Values{}
	if f.WalletID != "" {
		q.Set("wallet_id", f.WalletID)
	}
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.UTC().Format(time.RFC3339))
	}

	path := "/v1/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var dtos []transactionDTO
	if err := c.getJSON(ctx, path, &dtos); err != nil {
		return nil, err
	}

	txs := make([]model.TransactionRecord, 0, len(dtos))
	for _, d := range dtos {
		txs = append(txs, model.TransactionRecord{
			ID:                  d.ID,
			WalletID:            d.WalletID,
			CategoryID:          d.CategoryID,
			Type:                model.TransactionType(d.Type),
			Amount:              d.Amount,
			Date:                d.Date,
			ExcludedFromReports: d.Excluded,
			Note:                d.Note,
		})
	}
	return txs, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.sessionKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrNotAuthenticated
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("fetching %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
