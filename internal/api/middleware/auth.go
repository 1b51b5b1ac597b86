package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/metrics"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// HeaderAuthToken is the request header carrying the raw bearer token.
const HeaderAuthToken = "x-authentication-token"

const userContextKey = "authenticated_user"

// Auth verifies the x-authentication-token header via the user service and
// injects the authenticated user into the request context. Missing header,
// malformed token, unknown user and stale version all yield the same opaque
// 401 body.
func Auth(users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tkn := c.Request().Header.Get(HeaderAuthToken)
			if tkn == "" {
				metrics.TokenChecksTotal.WithLabelValues("rejected").Inc()
				return domain.ErrUnauthenticated
			}

			user, err := users.Authenticate(c.Request().Context(), tkn)
			if err != nil {
				metrics.TokenChecksTotal.WithLabelValues("rejected").Inc()
				return err
			}

			metrics.TokenChecksTotal.WithLabelValues("ok").Inc()
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user injected by Auth, or nil when the route
// was not guarded.
func UserFromContext(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}
