package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/ingest"
	"github.com/zdy718/ClearDollar/internal/logger"
	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/pagination"
	"github.com/zdy718/ClearDollar/internal/services"
)

const (
	maxUploadBytes  = 5 << 20
	defaultSyncDays = 30
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	bank               services.BankSyncer
	auditService       services.AuditServicer
	now                func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler. bank may be nil,
// in which case bank sync reports BANK_SYNC_DISABLED.
func NewTransactionHandler(transactionService services.TransactionServicer, bank services.BankSyncer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		bank:               bank,
		auditService:       auditService,
		now:                time.Now,
	}
}

// TagTransactionRequest sets or clears a transaction's category.
type TagTransactionRequest struct {
	CategoryID *uint `json:"category_id"`
}

// BankSyncRequest represents the request payload for importing from the bank.
type BankSyncRequest struct {
	PublicToken string `json:"public_token" binding:"required"`
	Days        int    `json:"days" binding:"omitempty,min=1,max=730"`
}

// TransactionResponse wraps a single transaction.
type TransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

// ImportResponse reports how many transactions were stored.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// GetUserTransactions handles listing the user's transactions
// @Summary     List transactions
// @Description Paginated transactions, newest first
// @Tags        transactions
// @Produce     json
// @Param       userId      query string false "User scope (or X-User-ID header)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       from_date   query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       category_id query int    false "Filter by category ID"
// @Param       untagged    query bool   false "Only transactions without a category"
// @Param       min_amount  query string false "Filter by minimum signed amount"
// @Param       max_amount  query string false "Filter by maximum signed amount"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	categoryID, err := parseQueryID(c, "category_id")
	if err != nil {
		return filter, err
	}
	filter.CategoryID = categoryID

	switch c.Query("untagged") {
	case "", "false":
	case "true":
		filter.Untagged = true
	default:
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid untagged, must be true or false")
	}
	if filter.Untagged && filter.CategoryID != nil {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "category_id and untagged are mutually exclusive")
	}

	if v := c.Query("min_amount"); v != "" {
		amt, err := decimal.NewFromString(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}

	if v := c.Query("max_amount"); v != "" {
		amt, err := decimal.NewFromString(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}

	return filter, nil
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       id     path  int    true  "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: *transaction})
}

// TagTransaction handles assigning a transaction to a category
// @Summary     Tag a transaction
// @Description Set the transaction's category, or clear it with null
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       userId  query string                false "User scope (or X-User-ID header)"
// @Param       id      path  int                   true  "Transaction ID"
// @Param       request body  TagTransactionRequest true  "Category to assign"
// @Success     200 {object} MessageResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Router      /transactions/{id}/category [patch]
func (h *TransactionHandler) TagTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TagTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.transactionService.PatchTransactionCategory(c.Request.Context(), userID, transactionID, req.CategoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditRetagTransaction, services.ResourceTransaction, transactionID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID})

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction updated"})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       id     path  int    true  "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", services.ResourceTransaction, transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// UploadCSV handles importing a bank statement export
// @Summary     Upload a CSV statement
// @Description Columns: date (MM/DD/YYYY), signed amount, two ignored columns, merchant details
// @Tags        transactions
// @Accept      multipart/form-data
// @Produce     json
// @Param       userId query    string false "User scope (or X-User-ID header)"
// @Param       file   formData file   true  "Statement CSV"
// @Success     201 {object} ImportResponse "Imported transactions"
// @Failure     400 {object} ErrorResponse "Missing or malformed file"
// @Router      /transactions/upload [post]
func (h *TransactionHandler) UploadCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidCSV, err))
		return
	}
	defer func() { _ = file.Close() }()

	txns, err := ingest.ParseCSV(file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.importTransactions(c, userID, txns, map[string]interface{}{"source": "csv", "file": header.Filename})
}

// BankSync handles importing recent transactions from the bank aggregator
// @Summary     Sync from the bank
// @Description Exchange a Link public token and import the last N days of transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       userId  query string          false "User scope (or X-User-ID header)"
// @Param       request body  BankSyncRequest true  "Public token and window"
// @Success     201 {object} ImportResponse "Imported transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Bank aggregator failed"
// @Failure     503 {object} ErrorResponse "Bank sync not configured"
// @Router      /transactions/bank-sync [post]
func (h *TransactionHandler) BankSync(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if h.bank == nil {
		respondWithError(c, apperrors.ErrBankSyncDisabled)
		return
	}

	var req BankSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Days == 0 {
		req.Days = defaultSyncDays
	}

	ctx := c.Request.Context()
	accessToken, err := h.bank.ExchangePublicToken(ctx, req.PublicToken)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrBankSyncFailed, err))
		return
	}
	end := h.now()
	txns, err := h.bank.Transactions(ctx, accessToken, end.AddDate(0, 0, -req.Days), end)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrBankSyncFailed, err))
		return
	}
	logger.Get().Infow("bank sync fetched transactions", "user_id", userID, "count", len(txns), "days", req.Days)

	h.importTransactions(c, userID, txns, map[string]interface{}{"source": "bank", "days": req.Days})
}

func (h *TransactionHandler) importTransactions(c *gin.Context, userID string, txns []models.Transaction, changes map[string]interface{}) {
	count, err := h.transactionService.ImportTransactions(c.Request.Context(), userID, txns)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes["count"] = count
	h.auditService.Log(userID, services.AuditImport, services.ResourceTransaction, 0, c.ClientIP(), changes)

	c.JSON(http.StatusCreated, ImportResponse{Imported: count})
}
