package rest

import (
	"context"
	"net/http"
	"time"

	"bazaarHub/business/orders"
	"bazaarHub/domain"
	"bazaarHub/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		ordersService OrdersService
		validate      *validator.Validate
		timeout       time.Duration
	}

	OrdersService interface {
		CreateOrder(ctx context.Context, buyerID uint, lines []orders.OrderLine) (domain.Order, error)
		GetAllOrders(ctx context.Context, actor domain.Actor, status string) ([]domain.Order, error)
		GetOrder(ctx context.Context, actor domain.Actor, id uint) (domain.Order, error)
		UpdateStatus(ctx context.Context, actor domain.Actor, id uint, status string) (domain.Order, error)
	}

	OrdersInput struct {
		Items []orders.OrderLine `json:"items" validate:"required,min=1,dive"`
	}

	OrderStatusInput struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		ordersService: ordersService,
		validate:      validator.New(),
		timeout:       timeout,
	}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var request OrdersInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CreateOrder(ctx, actor.UserID, request.Items)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	list, err := h.ordersService.GetAllOrders(ctx, actor, c.QueryParam("status"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(list))
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, actor, uint(orderID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}

	var request OrderStatusInput
	if err := c.Bind(&request); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateStatus(ctx, actor, uint(orderID), request.Status)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}
