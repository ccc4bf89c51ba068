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

type CategoryService interface {
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService, timeout time.Duration) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		timeout:         timeout,
	}
}

// CategoryRequest is shared by create and update; a missing service charge
// falls back to the platform default.
type CategoryRequest struct {
	Name          string   `json:"name" validate:"required"`
	ParentID      *uint64  `json:"parent_id"`
	ServiceCharge *float64 `json:"service_charge" validate:"omitempty,gte=0,lte=100"`
}

func (r CategoryRequest) toDomain() *domain.Category {
	return &domain.Category{
		Name:          r.Name,
		ParentID:      r.ParentID,
		ServiceCharge: r.ServiceCharge,
	}
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(categories))
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	categoryID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(category))
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.CreateCategory(ctx, req.toDomain())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(category))
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	categoryID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category := req.toDomain()
	category.ID = categoryID

	updated, err := h.categoryService.UpdateCategory(ctx, category)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categoryID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid category id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("category deleted successfully"))
}
