package brand

import (
	"context"
	"fmt"
	"testing"

	"bazaarHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrandRepo struct {
	rows   map[uint64]domain.Brand
	nextID uint64
}

func (r *fakeBrandRepo) Create(_ context.Context, b *domain.Brand) error {
	r.nextID++
	b.ID = r.nextID
	r.rows[b.ID] = *b
	return nil
}

func (r *fakeBrandRepo) FindByID(_ context.Context, id uint64) (domain.Brand, error) {
	b, ok := r.rows[id]
	if !ok {
		return domain.Brand{}, fmt.Errorf("brand %d: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

func (r *fakeBrandRepo) FindByName(_ context.Context, name string) (domain.Brand, error) {
	for _, b := range r.rows {
		if b.Name == name {
			return b, nil
		}
	}
	return domain.Brand{}, fmt.Errorf("brand %q: %w", name, domain.ErrNotFound)
}

func (r *fakeBrandRepo) FindAll(_ context.Context) ([]domain.Brand, error) {
	var out []domain.Brand
	for _, b := range r.rows {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBrandRepo) Update(_ context.Context, b *domain.Brand) error {
	r.rows[b.ID] = *b
	return nil
}

func (r *fakeBrandRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("brand %d: %w", id, domain.ErrNotFound)
	}
	delete(r.rows, id)
	return nil
}

func TestBrandLifecycle(t *testing.T) {
	svc := NewBrandService(&fakeBrandRepo{rows: map[uint64]domain.Brand{}})
	ctx := context.Background()

	farm, err := svc.CreateBrand(ctx, &domain.Brand{Name: "  Hill Farm ", Description: "organic"})
	require.NoError(t, err)
	assert.Equal(t, "Hill Farm", farm.Name)

	_, err = svc.CreateBrand(ctx, &domain.Brand{Name: "Hill Farm"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateBrand(ctx, &domain.Brand{Name: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	dairy, err := svc.CreateBrand(ctx, &domain.Brand{Name: "Dairy Co"})
	require.NoError(t, err)

	_, err = svc.UpdateBrand(ctx, &domain.Brand{ID: dairy.ID, Name: "Hill Farm"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err := svc.UpdateBrand(ctx, &domain.Brand{ID: farm.ID, Name: "Hill Farm", Description: "local"})
	require.NoError(t, err)
	assert.Equal(t, "local", updated.Description)

	_, err = svc.UpdateBrand(ctx, &domain.Brand{ID: 99, Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteBrand(ctx, dairy.ID))
	assert.ErrorIs(t, svc.DeleteBrand(ctx, dairy.ID), domain.ErrNotFound)

	brands, err := svc.GetAllBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}
