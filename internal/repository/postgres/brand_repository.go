package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaarHub/domain"

	"gorm.io/gorm"
)

type BrandRepository struct {
	DB *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{
		DB: db,
	}
}

func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	if err := r.DB.WithContext(ctx).Create(brand).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("brand %q already exists: %w", brand.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *BrandRepository) FindByID(ctx context.Context, id uint64) (domain.Brand, error) {
	var brand domain.Brand

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Brand{}, fmt.Errorf("brand %d: %w", id, domain.ErrNotFound)
		}
		return domain.Brand{}, fmt.Errorf("failed to find brand: %w", err)
	}

	return brand, nil
}

func (r *BrandRepository) FindByName(ctx context.Context, name string) (domain.Brand, error) {
	var brand domain.Brand

	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Brand{}, fmt.Errorf("brand %q: %w", name, domain.ErrNotFound)
		}
		return domain.Brand{}, fmt.Errorf("failed to find brand: %w", err)
	}

	return brand, nil
}

// FindAll lists brands newest first.
func (r *BrandRepository) FindAll(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	if err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to find brands: %w", err)
	}

	return brands, nil
}

func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	result := r.DB.WithContext(ctx).Model(&domain.Brand{}).Where("id = ?", brand.ID).
		Updates(map[string]interface{}{
			"name":        brand.Name,
			"description": brand.Description,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("brand %q already exists: %w", brand.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to update brand: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("brand %d: %w", brand.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the brand and clears it from products in one transaction.
func (r *BrandRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Product{}).Where("brand_id = ?", id).
			Update("brand_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&domain.Brand{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete brand: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("brand %d: %w", id, domain.ErrNotFound)
		}

		return nil
	})
}
