package rest

import (
	"context"
	"net/http"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context, vendorID uint, categoryID uint64) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint64) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor domain.Actor, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id uint64) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        timeout,
	}
}

// ProductRequest is shared by create and update. VendorID is only honoured
// for admins creating a product on behalf of a vendor.
type ProductRequest struct {
	VendorID   *uint   `json:"vendor_id"`
	CategoryID *uint64 `json:"category_id"`
	BrandID    *uint64 `json:"brand_id"`
	Name       string  `json:"name" validate:"required"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	Stock      int     `json:"stock" validate:"gte=0"`
}

func (r ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		VendorID:   r.VendorID,
		CategoryID: r.CategoryID,
		BrandID:    r.BrandID,
		Name:       r.Name,
		Unit:       r.Unit,
		Price:      r.Price,
		Stock:      r.Stock,
	}
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	vendorID, err := queryUint(c, "vendorId")
	if err != nil {
		return badRequest(c, "invalid vendorId")
	}
	categoryID, err := queryUint(c, "categoryId")
	if err != nil {
		return badRequest(c, "invalid categoryId")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx, uint(vendorID), categoryID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

// GetMyProducts lists the calling vendor's own products.
func (h *ProductHandler) GetMyProducts(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx, actor.UserID, 0)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.CreateProduct(ctx, actor, req.toDomain())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(product))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	productID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product := req.toDomain()
	product.ID = productID

	updated, err := h.productService.UpdateProduct(ctx, actor, product)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	productID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, actor, productID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("product deleted successfully"))
}
