package category

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
	FindByName(ctx context.Context, name string) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint64) error
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error) {
	if id == 0 {
		return domain.Category{}, fmt.Errorf("invalid category id: %w", domain.ErrValidation)
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find category", err)
		return domain.Category{}, err
	}

	return category, nil
}

// CreateCategory stores a new category. A nil service charge defaults to
// domain.DefaultServiceChargePct.
func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create category")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}

	if category.ServiceCharge == nil {
		pct := domain.DefaultServiceChargePct
		category.ServiceCharge = &pct
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.Error("failed to create new category", err)
		return nil, err
	}

	logger.Info("category created", "category_id", category.ID, "service_charge", *category.ServiceCharge)

	return category, nil
}

// UpdateCategory replaces name, parent and charge. The new charge applies to
// every future reconciliation, including orders already delivered.
func (s *categoryService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.ID == 0 {
		return nil, fmt.Errorf("category ID is required: %w", domain.ErrValidation)
	}

	if _, err := s.categoryRepo.FindByID(ctx, category.ID); err != nil {
		logger.Error("category not found", err)
		return nil, err
	}

	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}

	if category.ServiceCharge == nil {
		pct := domain.DefaultServiceChargePct
		category.ServiceCharge = &pct
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		logger.Error("failed to update category", err)
		return nil, err
	}

	updatedCategory, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		logger.Error("failed to fetch updated category", err)
		return nil, fmt.Errorf("failed to fetch updated category: %w", err)
	}

	logger.Info("category updated", "category_id", category.ID)

	return &updatedCategory, nil
}

// DeleteCategory removes a category; products and subcategories keep existing
// with their reference cleared.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint64) error {
	if id == 0 {
		return fmt.Errorf("invalid category id: %w", domain.ErrValidation)
	}

	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		logger.Error("category not found", err)
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete category", err)
		return err
	}

	logger.Info("category deleted", "category_id", id)

	return nil
}

func (s *categoryService) validate(ctx context.Context, category *domain.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("category name is required: %w", domain.ErrValidation)
	}

	if pct := category.ServiceCharge; pct != nil {
		if math.IsNaN(*pct) || *pct < 0 || *pct > 100 {
			return fmt.Errorf("service charge must be between 0 and 100: %w", domain.ErrValidation)
		}
	}

	existing, err := s.categoryRepo.FindByName(ctx, category.Name)
	switch {
	case err == nil && existing.ID != category.ID:
		return fmt.Errorf("category %q already exists: %w", category.Name, domain.ErrConflict)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}

	if category.ParentID != nil {
		if *category.ParentID == category.ID && category.ID != 0 {
			return fmt.Errorf("category cannot be its own parent: %w", domain.ErrValidation)
		}
		if _, err := s.categoryRepo.FindByID(ctx, *category.ParentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("parent category %d does not exist: %w", *category.ParentID, domain.ErrValidation)
			}
			return err
		}
	}

	return nil
}
