package http

import (
	"net/http"
	"strings"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// principalContextKey is where Authenticate stores the verified principal.
const principalContextKey = "principal"

const bearerPrefix = "Bearer "

// Authenticate verifies the bearer token on each request and stores the
// resulting principal in the request context. Requests without a valid token
// get 401.
func Authenticate(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Missing bearer token",
				})
			}

			principal, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Invalid or expired token",
				})
			}

			ctx.Set(principalContextKey, principal)
			return next(ctx)
		}
	}
}

// RequireAdmin rejects authenticated requests whose principal is not an
// admin. Must run after Authenticate.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		principal, ok := principalFrom(ctx)
		if !ok || principal.Role != account.RoleAdmin {
			return ctx.JSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "Admin access required",
			})
		}
		return next(ctx)
	}
}

func principalFrom(ctx echo.Context) (ports.Principal, bool) {
	principal, ok := ctx.Get(principalContextKey).(ports.Principal)
	return principal, ok
}
