package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
)

// categoryService handles category record storage.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns all of a user's categories in creation order.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// ListCategoriesByType returns a user's categories of one type in creation order.
func (s *categoryService) ListCategoriesByType(ctx context.Context, userID string, categoryType models.CategoryType) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, categoryType).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(ctx context.Context, userID string, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory creates a new category. Names need not be unique.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, req models.CategoryCreate) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !req.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	if req.ParentID != nil {
		parent, err := s.lookupParent(ctx, userID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != req.Type {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
	}

	category := &models.Category{
		UserID:       userID,
		ParentID:     req.ParentID,
		Name:         name,
		BudgetAmount: req.BudgetAmount.Abs(),
		Type:         req.Type,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// PatchCategory applies a partial update. The parent is always written, nil
// moving the category to the root. Moving a category under itself or one of
// its descendants is rejected.
func (s *categoryService) PatchCategory(ctx context.Context, userID string, categoryID uint, req models.CategoryPatch) (*models.Category, error) {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	categoryType := category.Type
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
		}
		categoryType = *req.Type
	}

	if req.ParentID != nil {
		if *req.ParentID == categoryID {
			return nil, apperrors.ErrSelfParentCategory
		}
		parent, err := s.lookupParent(ctx, userID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != categoryType {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
		if err := s.checkNotDescendant(ctx, userID, categoryID, parent); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{"parent_id": req.ParentID}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
		}
		updates["name"] = name
	}
	if req.BudgetAmount != nil {
		updates["budget_amount"] = req.BudgetAmount.Abs()
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}

	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetCategoryByID(ctx, userID, categoryID)
}

// DeleteCategory soft-deletes a leaf category and untags its transactions.
func (s *categoryService) DeleteCategory(ctx context.Context, userID string, categoryID uint) error {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var childCount int64
	if err := db.Model(&models.Category{}).
		Where("user_id = ? AND parent_id = ?", userID, categoryID).
		Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if childCount > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func (s *categoryService) lookupParent(ctx context.Context, userID string, parentID uint) (*models.Category, error) {
	parent, err := s.GetCategoryByID(ctx, userID, parentID)
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
	}
	return parent, err
}

// checkNotDescendant walks up from parent and fails if it reaches categoryID.
// The walk stops on a repeated id so a corrupted chain cannot loop forever.
func (s *categoryService) checkNotDescendant(ctx context.Context, userID string, categoryID uint, parent *models.Category) error {
	seen := map[uint]bool{}
	current := parent
	for current.ParentID != nil {
		next := *current.ParentID
		if next == categoryID {
			return apperrors.ErrCategoryCycle
		}
		if seen[next] {
			return nil
		}
		seen[next] = true

		ancestor, err := s.GetCategoryByID(ctx, userID, next)
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		current = ancestor
	}
	return nil
}
