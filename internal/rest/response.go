package rest

import (
	"errors"
	"net/http"
	"strconv"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
	jsonres "bazaarHub/pkg/response"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError = jsonres.ErrorBody

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorResponse writes err as a ResponseError. Unclassified errors are logged
// and answered with a generic message.
func errorResponse(c echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request().Method, "path", c.Path(), err)
		return c.JSON(status, ResponseError{Message: "internal server error"})
	}

	return c.JSON(status, ResponseError{Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ResponseError{Message: message})
}

// actorFrom reads the caller set by the auth middleware.
func actorFrom(c echo.Context) (domain.Actor, bool) {
	userID, ok := c.Get("user_id").(uint)
	if !ok || userID == 0 {
		return domain.Actor{}, false
	}
	role, _ := c.Get("role").(string)
	return domain.Actor{UserID: userID, Role: role}, true
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
}

func paramUint(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func queryUint(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
