package postgres

import (
	"context"
	"fmt"

	"bazaarHub/domain"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{
		DB: db,
	}
}

func (r *StatsRepository) Counts(ctx context.Context) (domain.StoreCounts, error) {
	var counts domain.StoreCounts
	db := r.DB.WithContext(ctx)

	if err := db.Model(&domain.User{}).Count(&counts.Users).Error; err != nil {
		return counts, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RoleVendor).Count(&counts.Vendors).Error; err != nil {
		return counts, fmt.Errorf("failed to count vendors: %w", err)
	}
	if err := db.Model(&domain.Product{}).Count(&counts.Products).Error; err != nil {
		return counts, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.Model(&domain.Order{}).Count(&counts.Orders).Error; err != nil {
		return counts, fmt.Errorf("failed to count orders: %w", err)
	}

	return counts, nil
}

func (r *StatsRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ?", domain.OrderStatusCancelled).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return total, nil
}

// RecentOrders returns the newest orders with their buyer, newest first.
func (r *StatsRepository) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	rows := []domain.RecentOrder{}
	err := r.DB.WithContext(ctx).
		Table("orders AS o").
		Select("o.id, o.buyer_id, u.full_name AS buyer_name, u.email AS buyer_email, o.total, o.status, o.created_at").
		Joins("LEFT JOIN users u ON u.id = o.buyer_id").
		Order("o.created_at DESC, o.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	return rows, nil
}
