package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/services"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

const (
	statusOK     = "ok"
	savedMessage = "Saved."
)

// BudgetHandler serves the category tree engine: the drill-down dashboard
// and the budget page's tree edits.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

type modeURI struct {
	Mode string `uri:"mode" binding:"required,budget_mode"`
}

// RestructureRequest carries the proposed nested forest.
type RestructureRequest struct {
	Forest tagtree.Forest `json:"forest" binding:"required"`
}

// CreateNodeRequest represents a new root category. A blank name falls back
// to the mode's default.
type CreateNodeRequest struct {
	Name         string          `json:"name" binding:"max=100"`
	BudgetAmount decimal.Decimal `json:"budget_amount" swaggertype:"string"`
}

// UpdateNodeRequest renames and/or rebudgets a node.
type UpdateNodeRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	BudgetAmount *decimal.Decimal `json:"budget_amount" swaggertype:"string"`
}

// SaveResponse reports a settled write.
type SaveResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Changes []tagtree.Edge `json:"changes,omitempty"`
	Forest  tagtree.Forest `json:"forest,omitempty"`
	Node    *tagtree.Node  `json:"node,omitempty"`
}

// TreeResponse wraps a forest.
type TreeResponse struct {
	Forest tagtree.Forest `json:"forest"`
}

func bindMode(c *gin.Context) (tagtree.Mode, error) {
	var uri modeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "mode must be income or expense")
	}
	mode, err := tagtree.ParseMode(uri.Mode)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return mode, nil
}

// scope resolves the user and mode every budget route needs.
func scope(c *gin.Context) (string, tagtree.Mode, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	mode, err := bindMode(c)
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	return userID, mode, true
}

// GetView handles the dashboard at a drill path
// @Summary     Dashboard view
// @Description Breakdown, budget bars and breadcrumbs at a drill path
// @Tags        budget
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       mode   path  string true  "income or expense"
// @Param       path   query string false "Comma-separated drill path of category ids"
// @Success     200 {object} tagtree.View "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid mode or drill path"
// @Router      /budget/{mode} [get]
func (h *BudgetHandler) GetView(c *gin.Context) {
	userID, mode, ok := scope(c)
	if !ok {
		return
	}
	path, err := parseIDList(c.Query("path"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.budgetService.View(c.Request.Context(), userID, mode, path)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetTree handles reading the normalized forest
// @Summary     Category tree
// @Tags        budget
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       mode   path  string true  "income or expense"
// @Success     200 {object} TreeResponse "Forest"
// @Router      /budget/{mode}/tree [get]
func (h *BudgetHandler) GetTree(c *gin.Context) {
	userID, mode, ok := scope(c)
	if !ok {
		return
	}

	forest, err := h.budgetService.Tree(c.Request.Context(), userID, mode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TreeResponse{Forest: forest})
}

// Restructure handles a drag-and-drop tree edit
// @Summary     Restructure the tree
// @Description Accept a rearranged forest and persist every changed parent
// @Tags        budget
// @Accept      json
// @Produce     json
// @Param       userId  query string             false "User scope (or X-User-ID header)"
// @Param       mode    path  string             true  "income or expense"
// @Param       request body  RestructureRequest true  "Proposed forest"
// @Success     200 {object} SaveResponse "Saved"
// @Failure     400 {object} ErrorResponse "Malformed forest"
// @Failure     502 {object} ErrorResponse "Some moves failed to save"
// @Router      /budget/{mode}/restructure [post]
func (h *BudgetHandler) Restructure(c *gin.Context) {
	userID, mode, ok := scope(c)
	if !ok {
		return
	}

	var req RestructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.Restructure(c.Request.Context(), userID, mode, req.Forest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(result.Changes) > 0 {
		h.auditService.Log(userID, services.AuditRestructure, services.ResourceCategory, 0, c.ClientIP(),
			map[string]interface{}{"mode": mode, "changes": result.Changes})
	}

	c.JSON(http.StatusOK, SaveResponse{
		Status:  statusOK,
		Message: savedMessage,
		Changes: result.Changes,
		Forest:  result.Forest,
	})
}

// CreateNode handles adding a root category from the budget page
// @Summary     Add a root category
// @Tags        budget
// @Accept      json
// @Produce     json
// @Param       userId  query string            false "User scope (or X-User-ID header)"
// @Param       mode    path  string            true  "income or expense"
// @Param       request body  CreateNodeRequest false "Name and budget"
// @Success     201 {object} SaveResponse "Created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budget/{mode}/nodes [post]
func (h *BudgetHandler) CreateNode(c *gin.Context) {
	userID, mode, ok := scope(c)
	if !ok {
		return
	}

	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = mode.DefaultNodeName()
	}

	node, err := h.budgetService.CreateNode(c.Request.Context(), userID, mode, req.Name, req.BudgetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateCategory, services.ResourceCategory, node.ID, c.ClientIP(),
		map[string]interface{}{"name": node.Name, "type": node.Type})

	c.JSON(http.StatusCreated, SaveResponse{Status: statusOK, Message: savedMessage, Node: node})
}

// UpdateNode handles renaming or rebudgeting a node
// @Summary     Rename or rebudget a category
// @Tags        budget
// @Accept      json
// @Produce     json
// @Param       userId  query string            false "User scope (or X-User-ID header)"
// @Param       mode    path  string            true  "income or expense"
// @Param       id      path  int               true  "Category ID"
// @Param       request body  UpdateNodeRequest true  "Fields to change"
// @Success     200 {object} SaveResponse "Saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     502 {object} ErrorResponse "Changes failed to save"
// @Router      /budget/{mode}/nodes/{id} [patch]
func (h *BudgetHandler) UpdateNode(c *gin.Context) {
	userID, mode, ok := scope(c)
	if !ok {
		return
	}
	nodeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	node, err := h.budgetService.UpdateNode(c.Request.Context(), userID, mode, nodeID, services.NodeUpdate{
		Name:         req.Name,
		BudgetAmount: req.BudgetAmount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateCategory, services.ResourceCategory, nodeID, c.ClientIP(),
		map[string]interface{}{"name": node.Name, "budget_amount": node.BudgetAmount.String()})

	c.JSON(http.StatusOK, SaveResponse{Status: statusOK, Message: savedMessage, Node: node})
}

// Resync handles discarding the cached tree
// @Summary     Re-sync the tree
// @Description Discard the server-side tree and rebuild it from the records
// @Tags        budget
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       mode   path  string true  "income or expense"
// @Success     200 {object} TreeResponse "Forest"
// @Router      /budget/{mode}/resync [post]
func (h *BudgetHandler) Resync(c *gin.Context) {
	userID, mode, ok := scope(c)
	if !ok {
		return
	}

	forest, err := h.budgetService.Resync(c.Request.Context(), userID, mode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TreeResponse{Forest: forest})
}
