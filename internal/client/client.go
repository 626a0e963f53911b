// Package client provides an HTTP client for the ClearDollar record store API.
// Client satisfies store.Store, so a tree session can run against a remote
// server exactly as it does against the database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/pagination"
	"github.com/zdy718/ClearDollar/internal/store"
)

// UserHeader carries the user scope on every request.
const UserHeader = "X-User-ID"

var _ store.Store = (*Client)(nil)

// Client communicates with the ClearDollar API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new ClearDollar API client. baseURL is the server root,
// without the /api/v1 prefix.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: httpClient,
	}
}

// ListCategories fetches every category of the user.
func (c *Client) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, userID, http.MethodGet, "/categories", nil, &result); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return result.Categories, nil
}

// CreateCategory creates a category and returns it with its assigned id.
func (c *Client) CreateCategory(ctx context.Context, userID string, req models.CategoryCreate) (*models.Category, error) {
	var result struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, userID, http.MethodPost, "/categories", req, &result); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &result.Category, nil
}

// PatchCategory updates one category. The parent is always sent.
func (c *Client) PatchCategory(ctx context.Context, userID string, id uint, req models.CategoryPatch) (*models.Category, error) {
	var result struct {
		Category models.Category `json:"category"`
	}
	path := "/categories/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, userID, http.MethodPatch, path, req, &result); err != nil {
		return nil, fmt.Errorf("patching category %d: %w", id, err)
	}
	return &result.Category, nil
}

// ListTransactions fetches every transaction of the user, following pages
// until the last one.
func (c *Client) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var all []models.Transaction
	for page := 1; ; page++ {
		q := pagination.PageRequest{Page: page, PageSize: pagination.MaxPageSize}.Query()

		var result pagination.PageResponse[models.Transaction]
		if err := c.do(ctx, userID, http.MethodGet, "/transactions?"+q.Encode(), nil, &result); err != nil {
			return nil, fmt.Errorf("listing transactions page %d: %w", page, err)
		}
		all = append(all, result.Data...)
		if !result.HasMore() {
			return all, nil
		}
	}
}

// PatchTransactionCategory tags a transaction, or untags it when categoryID
// is nil.
func (c *Client) PatchTransactionCategory(ctx context.Context, userID string, transactionID uint, categoryID *uint) error {
	body := struct {
		CategoryID *uint `json:"category_id"`
	}{CategoryID: categoryID}
	path := "/transactions/" + strconv.FormatUint(uint64(transactionID), 10) + "/category"
	if err := c.do(ctx, userID, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("tagging transaction %d: %w", transactionID, err)
	}
	return nil
}

// do sends one request. Non-2xx responses carrying the API's error envelope
// come back as *AppError so callers can match sentinels with errors.Is.
func (c *Client) do(ctx context.Context, userID, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(UserHeader, userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return &apperrors.AppError{
		Code:       envelope.Error.Code,
		Message:    envelope.Error.Message,
		StatusCode: resp.StatusCode,
	}
}
