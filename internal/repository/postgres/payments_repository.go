package postgres

import (
	"context"
	"errors"
	"fmt"

	"bazaarHub/domain"

	"gorm.io/gorm"
)

type PaymentsRepository struct {
	DB *gorm.DB
}

func NewPaymentsRepository(db *gorm.DB) *PaymentsRepository {
	return &PaymentsRepository{
		DB: db,
	}
}

func (r *PaymentsRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if err := r.DB.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetAllPayments lists payments of one buyer, or every payment when buyerID is 0.
func (r *PaymentsRepository) GetAllPayments(ctx context.Context, buyerID uint) ([]domain.Payment, error) {
	var payments []domain.Payment

	q := r.DB.WithContext(ctx).Order("id DESC")
	if buyerID != 0 {
		q = q.Where("buyer_id = ?", buyerID)
	}

	if err := q.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}

	return payments, nil
}

func (r *PaymentsRepository) GetPayment(ctx context.Context, id uint) (domain.Payment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PaymentsRepository) GetPaymentByExternalID(ctx context.Context, externalID string) (domain.Payment, error) {
	return r.first(ctx, "external_id = ?", externalID)
}

func (r *PaymentsRepository) first(ctx context.Context, query string, arg interface{}) (domain.Payment, error) {
	var payment domain.Payment

	err := r.DB.WithContext(ctx).Where(query, arg).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, fmt.Errorf("payment: %w", domain.ErrNotFound)
		}
		return domain.Payment{}, fmt.Errorf("failed to find payment: %w", err)
	}

	return payment, nil
}

func (r *PaymentsRepository) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	result := r.DB.WithContext(ctx).Model(&domain.Payment{}).Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"payment_status": payment.PaymentStatus,
			"payment_method": payment.PaymentMethod,
			"payment_link":   payment.PaymentLink,
			"paid_at":        payment.PaidAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("payment %d: %w", payment.ID, domain.ErrNotFound)
	}

	return nil
}
