package review

import (
	"context"
	"fmt"
	"testing"

	"bazaarHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type key struct {
	user    uint
	product uint64
}

type fakeReviewRepo struct {
	delivered map[key]bool
	reviews   map[key]domain.Review
	nextID    uint
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{delivered: map[key]bool{}, reviews: map[key]domain.Review{}}
}

func (f *fakeReviewRepo) HasDeliveredPurchase(_ context.Context, userID uint, productID uint64) (bool, error) {
	return f.delivered[key{userID, productID}], nil
}

func (f *fakeReviewRepo) FindByUserAndProduct(_ context.Context, userID uint, productID uint64) (domain.Review, error) {
	r, ok := f.reviews[key{userID, productID}]
	if !ok {
		return domain.Review{}, fmt.Errorf("review: %w", domain.ErrNotFound)
	}
	return r, nil
}

func (f *fakeReviewRepo) FindByProduct(_ context.Context, productID uint64) ([]domain.Review, error) {
	out := []domain.Review{}
	for k, r := range f.reviews {
		if k.product == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Save(_ context.Context, r *domain.Review) (bool, error) {
	k := key{r.UserID, r.ProductID}
	if existing, ok := f.reviews[k]; ok {
		r.ID = existing.ID
		f.reviews[k] = *r
		return false, nil
	}
	f.nextID++
	r.ID = f.nextID
	f.reviews[k] = *r
	return true, nil
}

type fakeProducts map[uint64]domain.Product

func (f fakeProducts) FindByID(_ context.Context, id uint64) (domain.Product, error) {
	p, ok := f[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func TestAddReview(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReviewRepo()
	repo.delivered[key{7, 1}] = true
	svc := NewReviewService(repo, fakeProducts{1: {ID: 1}, 2: {ID: 2}})

	tests := []struct {
		name      string
		productID uint64
		rating    int
		wantErr   error
	}{
		{name: "no product", productID: 0, rating: 4, wantErr: domain.ErrValidation},
		{name: "rating too low", productID: 1, rating: 0, wantErr: domain.ErrValidation},
		{name: "rating too high", productID: 1, rating: 6, wantErr: domain.ErrValidation},
		{name: "unknown product", productID: 9, rating: 4, wantErr: domain.ErrNotFound},
		{name: "never delivered", productID: 2, rating: 4, wantErr: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.AddReview(ctx, 7, tt.productID, tt.rating, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	first, created, err := svc.AddReview(ctx, 7, 1, 5, "  lovely  ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "lovely", first.Comment)

	second, created, err := svc.AddReview(ctx, 7, 1, 3, "meh")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	reviews, err := svc.ListReviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 3, reviews[0].Rating)
}

func TestCanReview(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReviewRepo()
	repo.delivered[key{7, 1}] = true
	svc := NewReviewService(repo, fakeProducts{1: {ID: 1}})

	got, err := svc.CanReview(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewEligibility{CanReview: true}, got)

	_, _, err = svc.AddReview(ctx, 7, 1, 4, "")
	require.NoError(t, err)

	got, err = svc.CanReview(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewEligibility{CanReview: true, AlreadyReviewed: true}, got)

	got, err = svc.CanReview(ctx, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewEligibility{}, got)

	_, err = svc.ListReviews(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
