package postgres

import (
	"context"
	"fmt"

	"bazaarHub/domain"

	"gorm.io/gorm"
)

// PayoutRepository is append-only: payouts are never updated or deleted.
type PayoutRepository struct {
	DB *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{
		DB: db,
	}
}

func (r *PayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	if err := r.DB.WithContext(ctx).Create(payout).Error; err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}

	return nil
}

// FindAll lists payouts newest first, restricted to one vendor when vendorID is set.
func (r *PayoutRepository) FindAll(ctx context.Context, vendorID uint) ([]domain.Payout, error) {
	q := r.DB.WithContext(ctx).Order("created_at DESC, id DESC")
	if vendorID != 0 {
		q = q.Where("vendor_id = ?", vendorID)
	}

	var payouts []domain.Payout
	if err := q.Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("failed to find payouts: %w", err)
	}

	return payouts, nil
}

func (r *PayoutRepository) FindByVendors(ctx context.Context, vendorIDs []uint) ([]domain.Payout, error) {
	var payouts []domain.Payout
	if len(vendorIDs) == 0 {
		return payouts, nil
	}

	if err := r.DB.WithContext(ctx).Where("vendor_id IN ?", vendorIDs).
		Order("id ASC").Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("failed to find payouts: %w", err)
	}

	return payouts, nil
}
