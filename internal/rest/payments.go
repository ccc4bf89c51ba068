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

type (
	PaymentsHandler struct {
		validate        *validator.Validate
		paymentsService PaymentsService
		timeout         time.Duration
	}

	PaymentsService interface {
		CreatePayment(ctx context.Context, buyerID, orderID uint) (domain.Payment, error)
		GetAllPayments(ctx context.Context, actor domain.Actor) ([]domain.Payment, error)
		GetPayment(ctx context.Context, actor domain.Actor, id uint) (domain.Payment, error)
		HandleWebhook(ctx context.Context, hook domain.XenditWebhook) error
	}

	PaymentsInput struct {
		OrderID uint `json:"order_id" validate:"required"`
	}
)

func NewPaymentsHandler(paymentsService PaymentsService, timeout time.Duration) *PaymentsHandler {
	return &PaymentsHandler{
		validate:        validator.New(),
		paymentsService: paymentsService,
		timeout:         timeout,
	}
}

func (h *PaymentsHandler) CreatePayment(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var request PaymentsInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.CreatePayment(ctx, actor.UserID, request.OrderID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(payment))
}

func (h *PaymentsHandler) GetAllPayments(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payments, err := h.paymentsService.GetAllPayments(ctx, actor)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payments))
}

func (h *PaymentsHandler) GetPayment(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	paymentID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid payment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.GetPayment(ctx, actor, uint(paymentID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payment))
}
