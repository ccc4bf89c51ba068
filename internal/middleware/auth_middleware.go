package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/utils"

	jsonres "bazaarHub/pkg/response"

	"github.com/labstack/echo/v4"
)

// TokenParser verifies a bearer token's signature and expiry.
type TokenParser interface {
	ParseJWT(token string) (*utils.Claims, error)
}

// SessionValidator checks that a token is still registered in the session store.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (uint, error)
}

// AuthMiddleware authenticates the bearer token against its signature and the
// session store, then exposes user_id, role and token on the context.
func AuthMiddleware(parser TokenParser, sessions SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error("Missing authorization header"))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error("Invalid authorization format"))
			}

			tokenString := tokenParts[1]

			claims, err := parser.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("Failed to parse JWT", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error("Invalid token"))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			sessionUserID, err := sessions.ValidateSession(ctx, tokenString)
			if err != nil {
				logger.Debug("Token not found in session store", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error("Token expired or invalid"))
			}

			userID, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil || uint(userID) != sessionUserID {
				logger.Error("UserID mismatch between JWT and session store")
				return c.JSON(http.StatusUnauthorized, jsonres.Error("Invalid token"))
			}

			c.Set("user_id", uint(userID))
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// RequireRole lets through only callers whose role is one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, jsonres.Error("Insufficient role"))
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

func VendorOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleVendor)
}

func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loggedInUserID, ok := c.Get("user_id").(uint)
			if !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error("User not authenticated"))
			}

			if role, _ := c.Get("role").(string); role == domain.RoleAdmin {
				return next(c)
			}

			requestedID, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, jsonres.Error("Invalid user ID"))
			}

			if uint(requestedID) != loggedInUserID {
				return c.JSON(http.StatusForbidden, jsonres.Error("You can only access your own data"))
			}

			return next(c)
		}
	}
}

// ErrorHandler renders framework errors (unknown routes, bad methods, panics
// recovered upstream) as {"message": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	} else {
		logger.Error("Unhandled error", "path", c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, jsonres.Error(message))
	}
	if err != nil {
		logger.Error("Failed to write error response", err)
	}
}
