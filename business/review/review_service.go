package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
)

type ReviewRepository interface {
	HasDeliveredPurchase(ctx context.Context, userID uint, productID uint64) (bool, error)
	FindByUserAndProduct(ctx context.Context, userID uint, productID uint64) (domain.Review, error)
	FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error)
	Save(ctx context.Context, review *domain.Review) (bool, error)
}

type ProductFinder interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

type ReviewService struct {
	reviewRepo  ReviewRepository
	productRepo ProductFinder
}

func NewReviewService(reviewRepo ReviewRepository, productRepo ProductFinder) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// AddReview writes the buyer's review of a product they received. Posting
// again replaces the earlier review; created reports which case happened.
func (s *ReviewService) AddReview(ctx context.Context, userID uint, productID uint64, rating int, comment string) (review domain.Review, created bool, err error) {
	if productID == 0 {
		return domain.Review{}, false, fmt.Errorf("product id is required: %w", domain.ErrValidation)
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.Review{}, false, fmt.Errorf("rating must be between %d and %d: %w", domain.MinRating, domain.MaxRating, domain.ErrValidation)
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return domain.Review{}, false, err
	}

	delivered, err := s.reviewRepo.HasDeliveredPurchase(ctx, userID, productID)
	if err != nil {
		logger.Error("failed to check purchase", "user_id", userID, "product_id", productID, err)
		return domain.Review{}, false, err
	}
	if !delivered {
		return domain.Review{}, false, fmt.Errorf("only buyers who received product %d can review it: %w", productID, domain.ErrForbidden)
	}

	review = domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	created, err = s.reviewRepo.Save(ctx, &review)
	if err != nil {
		logger.Error("failed to save review", "user_id", userID, "product_id", productID, err)
		return domain.Review{}, false, err
	}

	logger.Info("review saved", "review_id", review.ID, "product_id", productID, "created", created)

	return review, created, nil
}

func (s *ReviewService) CanReview(ctx context.Context, userID uint, productID uint64) (domain.ReviewEligibility, error) {
	delivered, err := s.reviewRepo.HasDeliveredPurchase(ctx, userID, productID)
	if err != nil {
		return domain.ReviewEligibility{}, err
	}

	_, err = s.reviewRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.ReviewEligibility{}, err
	}

	return domain.ReviewEligibility{CanReview: delivered, AlreadyReviewed: err == nil}, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, productID uint64) ([]domain.Review, error) {
	if productID == 0 {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrValidation)
	}

	return s.reviewRepo.FindByProduct(ctx, productID)
}
