package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaarHub/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

// HasDeliveredPurchase reports whether the buyer has a delivered order that
// contains the product.
func (r *ReviewRepository) HasDeliveredPurchase(ctx context.Context, userID uint, productID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.buyer_id = ? AND o.status = ? AND oi.product_id = ?", userID, domain.OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}

	return count > 0, nil
}

func (r *ReviewRepository) FindByUserAndProduct(ctx context.Context, userID uint, productID uint64) (domain.Review, error) {
	var review domain.Review

	err := r.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Review{}, fmt.Errorf("review of product %d: %w", productID, domain.ErrNotFound)
		}
		return domain.Review{}, fmt.Errorf("failed to find review: %w", err)
	}

	return review, nil
}

// FindByProduct lists a product's reviews newest first, with author names.
func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	reviews := []domain.Review{}
	err := r.DB.WithContext(ctx).
		Model(&domain.Review{}).
		Select("reviews.*, u.full_name AS author_name").
		Joins("LEFT JOIN users u ON u.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.updated_at DESC, reviews.id DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

// Save creates the buyer's review of the product or replaces the one they
// already wrote, then recomputes the product's rating aggregates. It reports
// whether a new review was created.
func (r *ReviewRepository) Save(ctx context.Context, review *domain.Review) (bool, error) {
	created := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Review
		err := tx.Where("user_id = ? AND product_id = ?", review.UserID, review.ProductID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"rating":     review.Rating,
				"comment":    review.Comment,
				"updated_at": time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update review: %w", err)
			}
			if err := tx.First(review, existing.ID).Error; err != nil {
				return fmt.Errorf("failed to reload review: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(review).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("review already exists: %w", domain.ErrConflict)
				}
				return fmt.Errorf("failed to create review: %w", err)
			}
			created = true
		default:
			return fmt.Errorf("failed to find review: %w", err)
		}

		var agg struct {
			Avg   float64
			Count int
		}
		if err := tx.Model(&domain.Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("product_id = ?", review.ProductID).
			Scan(&agg).Error; err != nil {
			return fmt.Errorf("failed to aggregate ratings: %w", err)
		}

		if err := tx.Model(&domain.Product{}).Where("id = ?", review.ProductID).
			Updates(map[string]interface{}{"avg_rating": agg.Avg, "review_count": agg.Count}).Error; err != nil {
			return fmt.Errorf("failed to update product rating: %w", err)
		}

		return nil
	})

	return created, err
}
