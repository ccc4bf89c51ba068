package brand

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	FindByID(ctx context.Context, id uint64) (domain.Brand, error)
	FindByName(ctx context.Context, name string) (domain.Brand, error)
	FindAll(ctx context.Context) ([]domain.Brand, error)
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id uint64) error
}

type brandService struct {
	brandRepo BrandRepository
}

func NewBrandService(brandRepo BrandRepository) *brandService {
	return &brandService{
		brandRepo: brandRepo,
	}
}

func (s *brandService) GetAllBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.brandRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all brands", err)
		return nil, err
	}

	return brands, nil
}

func (s *brandService) CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	if err := s.validate(ctx, brand); err != nil {
		return nil, err
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		logger.Error("failed to create brand", err)
		return nil, err
	}

	logger.Info("brand created", "brand_id", brand.ID)

	return brand, nil
}

func (s *brandService) UpdateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	if brand.ID == 0 {
		return nil, fmt.Errorf("brand ID is required: %w", domain.ErrValidation)
	}

	if _, err := s.brandRepo.FindByID(ctx, brand.ID); err != nil {
		return nil, err
	}

	if err := s.validate(ctx, brand); err != nil {
		return nil, err
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		logger.Error("failed to update brand", err)
		return nil, err
	}

	updated, err := s.brandRepo.FindByID(ctx, brand.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated brand: %w", err)
	}

	logger.Info("brand updated", "brand_id", brand.ID)

	return &updated, nil
}

// DeleteBrand removes a brand; its products stay, unbranded.
func (s *brandService) DeleteBrand(ctx context.Context, id uint64) error {
	if id == 0 {
		return fmt.Errorf("invalid brand id: %w", domain.ErrValidation)
	}

	if err := s.brandRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete brand", err)
		return err
	}

	logger.Info("brand deleted", "brand_id", id)

	return nil
}

func (s *brandService) validate(ctx context.Context, brand *domain.Brand) error {
	brand.Name = strings.TrimSpace(brand.Name)
	if brand.Name == "" {
		return fmt.Errorf("brand name is required: %w", domain.ErrValidation)
	}

	existing, err := s.brandRepo.FindByName(ctx, brand.Name)
	switch {
	case err == nil && existing.ID != brand.ID:
		return fmt.Errorf("brand %q already exists: %w", brand.Name, domain.ErrConflict)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}

	return nil
}
