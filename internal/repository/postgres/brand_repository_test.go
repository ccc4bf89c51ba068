package postgres

import (
	"testing"

	"bazaarHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandDeleteDetachesProducts(t *testing.T) {
	f := newFixture(t)
	repo := NewBrandRepository(f.db)

	brand := domain.Brand{Name: "Hill Farm"}
	require.NoError(t, repo.Create(f.ctx, &brand))

	vendor := f.user("vera", domain.RoleVendor)
	p := f.product(&vendor, nil, 4, 10)
	require.NoError(t, f.db.Model(&domain.Product{}).Where("id = ?", p.ID).Update("brand_id", brand.ID).Error)

	require.NoError(t, repo.Delete(f.ctx, brand.ID))

	stored, err := NewProductRepository(f.db).FindByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.BrandID)

	assert.ErrorIs(t, repo.Delete(f.ctx, brand.ID), domain.ErrNotFound)
}

func TestBrandDuplicateName(t *testing.T) {
	f := newFixture(t)
	repo := NewBrandRepository(f.db)

	require.NoError(t, repo.Create(f.ctx, &domain.Brand{Name: "Hill Farm"}))
	assert.ErrorIs(t, repo.Create(f.ctx, &domain.Brand{Name: "Hill Farm"}), domain.ErrConflict)
}
