package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	FindAll(ctx context.Context, vendorID uint, categoryID uint64) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

type CategoryFinder interface {
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

type BrandFinder interface {
	FindByID(ctx context.Context, id uint64) (domain.Brand, error)
}

type VendorFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryFinder
	brandRepo    BrandFinder
	userRepo     VendorFinder
}

func NewProductService(productRepo ProductRepository, categoryRepo CategoryFinder, brandRepo BrandFinder, userRepo VendorFinder) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		userRepo:     userRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context, vendorID uint, categoryID uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx, vendorID, categoryID)
	if err != nil {
		logger.Error("Failed to find all product", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrValidation)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	return &product, nil
}

// CreateProduct stores a product. Vendors always own what they create; admins
// may assign a vendor or leave the product company-owned.
func (s *productService) CreateProduct(ctx context.Context, actor domain.Actor, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	switch {
	case actor.IsVendor():
		vendorID := actor.UserID
		product.VendorID = &vendorID
	case actor.IsAdmin():
		if product.VendorID != nil {
			if err := s.ensureVendor(ctx, *product.VendorID); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("only vendors and admins can create products: %w", domain.ErrForbidden)
	}

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, err
	}

	logger.Info("product created", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor domain.Actor, product *domain.Product) (*domain.Product, error) {
	if product.ID == 0 {
		return nil, fmt.Errorf("product ID is required: %w", domain.ErrValidation)
	}

	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, existing); err != nil {
		return nil, err
	}

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", err)
		return nil, err
	}

	updatedProduct, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated", "product_id", product.ID)

	return &updatedProduct, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor domain.Actor, id uint64) error {
	if id == 0 {
		return fmt.Errorf("invalid product id: %w", domain.ErrValidation)
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(actor, existing); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return err
	}

	logger.Info("product deleted", "product_id", id)

	return nil
}

func authorize(actor domain.Actor, product domain.Product) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsVendor() && product.VendorID != nil && *product.VendorID == actor.UserID {
		return nil
	}
	return fmt.Errorf("product %d belongs to another seller: %w", product.ID, domain.ErrForbidden)
}

func (s *productService) ensureVendor(ctx context.Context, vendorID uint) error {
	vendor, err := s.userRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("vendor %d does not exist: %w", vendorID, domain.ErrValidation)
		}
		return err
	}
	if !vendor.IsVendor() {
		return fmt.Errorf("user %d is not a vendor: %w", vendorID, domain.ErrValidation)
	}
	return nil
}

func (s *productService) validate(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return fmt.Errorf("product name is required: %w", domain.ErrValidation)
	}

	if product.Price <= 0 {
		return fmt.Errorf("price must be greater than 0: %w", domain.ErrValidation)
	}

	if product.Stock < 0 {
		return fmt.Errorf("stock cannot be negative: %w", domain.ErrValidation)
	}

	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *product.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("category %d does not exist: %w", *product.CategoryID, domain.ErrValidation)
			}
			return err
		}
	}

	if product.BrandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *product.BrandID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("brand %d does not exist: %w", *product.BrandID, domain.ErrValidation)
			}
			return err
		}
	}

	return nil
}
