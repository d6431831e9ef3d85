package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/controller"
	appErrors "github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	tokens *utils.TokenManager
}

func NewMiddleware(tokens *utils.TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// AuthMiddleware requires a valid "Bearer <token>" header and stores the
// claims under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrMissingAuthorizationHeader, "Authorization header required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrInvalidTokenFormat, "Invalid authorization format. Use: Bearer <token>")
			}

			claims, err := m.tokens.ValidateToken(parts[1])
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					return controller.NewErrorResponse(http.StatusUnauthorized,
						appErrors.ErrTokenExpired, "Token has expired")
				}
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrUnauthorized, "Invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request through the application logger.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			logger.Info("HTTP",
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	}
}
