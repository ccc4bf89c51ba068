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

type ReviewService interface {
	AddReview(ctx context.Context, userID uint, productID uint64, rating int, comment string) (domain.Review, bool, error)
	CanReview(ctx context.Context, userID uint, productID uint64) (domain.ReviewEligibility, error)
	ListReviews(ctx context.Context, productID uint64) ([]domain.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService, timeout time.Duration) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		timeout:       timeout,
	}
}

type ReviewRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// AddReview answers 201 for a new review and 200 when it replaced one.
func (h *ReviewHandler) AddReview(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid review body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, created, err := h.reviewService.AddReview(ctx, actor.UserID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		return errorResponse(c, err)
	}

	if created {
		return c.JSON(http.StatusCreated, fres.Response.StatusCreated(review))
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}

func (h *ReviewHandler) CanReview(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	productID, ok := paramUint(c, "productId")
	if !ok {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	eligibility, err := h.reviewService.CanReview(ctx, actor.UserID, productID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, eligibility)
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	productID, ok := paramUint(c, "productId")
	if !ok {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviewService.ListReviews(ctx, productID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reviews))
}
