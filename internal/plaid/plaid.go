// Package plaid is a minimal client for the Plaid bank aggregation API.
// It covers the two calls the importer needs: exchanging a Link public token
// and listing transactions for a date range.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zdy718/ClearDollar/internal/models"
)

const dateLayout = "2006-01-02"

var environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// BaseURL returns the API host for a Plaid environment. Unknown environments
// fall back to sandbox.
func BaseURL(env string) string {
	if u, ok := environments[strings.ToLower(strings.TrimSpace(env))]; ok {
		return u
	}
	return environments["sandbox"]
}

// Client talks to Plaid with a fixed set of credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	clientID   string
	secret     string
}

// NewClient creates a Plaid client for the given environment.
func NewClient(clientID, secret, env string, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    BaseURL(env),
		clientID:   clientID,
		secret:     secret,
	}
}

// Error is the error body Plaid returns on a failed call.
type Error struct {
	StatusCode   int    `json:"-"`
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (e *Error) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("plaid: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("plaid: %s: %s", e.ErrorCode, e.ErrorMessage)
}

// ExchangePublicToken swaps a Link public token for a long-lived access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, error) {
	body := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"public_token": publicToken,
	}
	var result struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.post(ctx, "/item/public_token/exchange", body, &result); err != nil {
		return "", fmt.Errorf("exchanging public token: %w", err)
	}
	return result.AccessToken, nil
}

type transaction struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Name          string          `json:"name"`
	MerchantName  string          `json:"merchant_name"`
}

// Transactions lists the item's transactions between start and end
// inclusive. Plaid reports money leaving the account as a positive amount;
// the result uses the signed convention where expenses are negative.
func (c *Client) Transactions(ctx context.Context, accessToken string, start, end time.Time) ([]models.Transaction, error) {
	body := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"start_date":   start.Format(dateLayout),
		"end_date":     end.Format(dateLayout),
	}
	var result struct {
		Transactions []transaction `json:"transactions"`
	}
	if err := c.post(ctx, "/transactions/get", body, &result); err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}

	txns := make([]models.Transaction, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		date, err := time.Parse(dateLayout, t.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: parsing date %q: %w", t.TransactionID, t.Date, err)
		}
		merchant := t.MerchantName
		if merchant == "" {
			merchant = t.Name
		}
		txns = append(txns, models.Transaction{
			Date:            date,
			Amount:          t.Amount.Neg(),
			MerchantDetails: merchant,
		})
	}
	return txns, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		apiErr := &Error{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
