package rest

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// CallbackTokenHeader carries the shared secret on every invoice callback.
const CallbackTokenHeader = "X-CALLBACK-TOKEN"

type WebhookController struct {
	paymentService PaymentsService
	callbackToken  string
	timeout        time.Duration
}

func NewWebhookController(paymentService PaymentsService, callbackToken string, timeout time.Duration) *WebhookController {
	return &WebhookController{
		paymentService: paymentService,
		callbackToken:  callbackToken,
		timeout:        timeout,
	}
}

func (ctrl *WebhookController) HandleWebhook(c echo.Context) error {
	token := c.Request().Header.Get(CallbackTokenHeader)
	if ctrl.callbackToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(ctrl.callbackToken)) != 1 {
		logger.Warn("Rejected invoice callback", "ip", c.RealIP())
		return unauthorized(c)
	}

	var request domain.XenditWebhook
	if err := c.Bind(&request); err != nil {
		logger.Error("Failed to bind webhook request", err)
		return badRequest(c, "invalid request body")
	}

	logger.Info("Received invoice callback", "external_id", request.ExternalID, "status", request.Status)

	ctx, cancel := context.WithTimeout(c.Request().Context(), ctrl.timeout)
	defer cancel()

	if err := ctrl.paymentService.HandleWebhook(ctx, request); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
}
