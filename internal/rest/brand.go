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

type BrandService interface {
	GetAllBrands(ctx context.Context) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id uint64) error
}

type BrandHandler struct {
	brandService BrandService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewBrandHandler(brandService BrandService, timeout time.Duration) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
		validator:    validator.New(),
		timeout:      timeout,
	}
}

type BrandRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *BrandHandler) GetAllBrands(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brands, err := h.brandService.GetAllBrands(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(brands))
}

func (h *BrandHandler) CreateBrand(c echo.Context) error {
	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brand, err := h.brandService.CreateBrand(ctx, &domain.Brand{Name: req.Name, Description: req.Description})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(brand))
}

func (h *BrandHandler) UpdateBrand(c echo.Context) error {
	brandID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid brand id")
	}

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	brand, err := h.brandService.UpdateBrand(ctx, &domain.Brand{ID: brandID, Name: req.Name, Description: req.Description})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(brand))
}

func (h *BrandHandler) DeleteBrand(c echo.Context) error {
	brandID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid brand id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.brandService.DeleteBrand(ctx, brandID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("brand deleted successfully"))
}
