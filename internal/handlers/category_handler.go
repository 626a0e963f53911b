package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/services"
)

// CategoryHandler serves the category records of the record store.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	sessions        sessionInvalidator
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, sessions sessionInvalidator, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, sessions: sessions, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name         string              `json:"name" binding:"required,max=100"`
	Type         models.CategoryType `json:"type" binding:"required,category_type"`
	ParentID     *uint               `json:"parent_id"`
	BudgetAmount decimal.Decimal     `json:"budget_amount" swaggertype:"string"`
}

// PatchCategoryRequest represents a partial category update. parent_id is
// always applied: omitting it or sending null moves the category to the root.
type PatchCategoryRequest struct {
	ParentID     *uint                `json:"parent_id"`
	Name         *string              `json:"name" binding:"omitempty,max=100"`
	BudgetAmount *decimal.Decimal     `json:"budget_amount" swaggertype:"string"`
	Type         *models.CategoryType `json:"type" binding:"omitempty,category_type"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Category models.Category `json:"category"`
}

// CategoryListResponse wraps a list of categories.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a category, optionally under a parent of the same type
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       userId  query string               false "User scope (or X-User-ID header)"
// @Param       request body  CreateCategoryRequest true  "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Parent not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, models.CategoryCreate{
		ParentID:     req.ParentID,
		Name:         req.Name,
		BudgetAmount: req.BudgetAmount,
		Type:         req.Type,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sessions.Invalidate(userID)
	h.auditService.Log(userID, services.AuditCreateCategory, services.ResourceCategory, category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name, "type": category.Type, "parent_id": category.ParentID})

	c.JSON(http.StatusCreated, CategoryResponse{Category: *category})
}

// ListCategories handles the retrieval of all categories for a user
// @Summary     List categories
// @Description List every category of the user, optionally of one type
// @Tags        categories
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       type   query string false "Filter by category type (income/expense)"
// @Success     200 {object} CategoryListResponse "Categories"
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var categories []models.Category
	if t := c.Query("type"); t != "" {
		categoryType := models.CategoryType(t)
		if !categoryType.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense"))
			return
		}
		categories, err = h.categoryService.ListCategoriesByType(c.Request.Context(), userID, categoryType)
	} else {
		categories, err = h.categoryService.ListCategories(c.Request.Context(), userID)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, CategoryListResponse{Categories: categories})
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       id     path  int    true  "Category ID"
// @Success     200 {object} CategoryResponse "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}

// PatchCategory handles a partial update of a category
// @Summary     Update category
// @Description Apply the parent (always) and any supplied name, budget or type
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       userId  query string               false "User scope (or X-User-ID header)"
// @Param       id      path  int                  true  "Category ID"
// @Param       request body  PatchCategoryRequest true  "Fields to change"
// @Success     200 {object} CategoryResponse "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input, self-parent or cycle"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [patch]
func (h *CategoryHandler) PatchCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PatchCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.PatchCategory(c.Request.Context(), userID, categoryID, models.CategoryPatch{
		ParentID:     req.ParentID,
		Name:         req.Name,
		BudgetAmount: req.BudgetAmount,
		Type:         req.Type,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sessions.Invalidate(userID)
	changes := map[string]interface{}{"parent_id": req.ParentID}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.BudgetAmount != nil {
		changes["budget_amount"] = req.BudgetAmount.String()
	}
	if req.Type != nil {
		changes["type"] = *req.Type
	}
	h.auditService.Log(userID, services.AuditUpdateCategory, services.ResourceCategory, categoryID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a childless category and untag its transactions
// @Tags        categories
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Param       id     path  int    true  "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category has children"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.sessions.Invalidate(userID)
	h.auditService.Log(userID, services.AuditDeleteCategory, services.ResourceCategory, categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
