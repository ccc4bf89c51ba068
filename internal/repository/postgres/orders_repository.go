package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaarHub/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// CreateOrder stores the order with its line items and reserves stock for
// every item in one transaction.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			result := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for product %d: %w", item.ProductID, domain.ErrConflict)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
}

func (r *OrdersRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order

	err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// FindAll lists orders newest first. Zero-valued filters are ignored.
func (r *OrdersRepository) FindAll(ctx context.Context, buyerID, vendorID uint, status string) ([]domain.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items").Order("created_at DESC, id DESC")

	if buyerID != 0 {
		q = q.Where("buyer_id = ?", buyerID)
	}
	if vendorID != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.vendor_id = ?)", vendorID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []domain.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order from one status to another. It fails with
// ErrConflict when the stored status is no longer from.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %d is no longer %s: %w", id, from, domain.ErrConflict)
	}

	return nil
}

func (r *OrdersRepository) MarkPaid(ctx context.Context, id uint, method string, metadata map[string]interface{}) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status":   domain.PaymentStatusPaid,
			"payment_method":   method,
			"payment_metadata": datatypes.JSONMap(metadata),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark order paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
