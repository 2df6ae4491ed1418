package middleware // middleware provides shared request processing for handlers

import (
	"context"  // context for the store lookup
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/tropictalks/classhub/internal/model"
)

// RoleLookup resolves the stored role for an email. The user
// repository satisfies this; tests substitute a fake.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (model.Role, error)
}

// RequireRole returns a middleware that permits the request only when
// the caller's stored role equals the required one. Unlike a
// claim-based check, the role is read from the user store on every
// request, so a demotion takes effect without waiting for the
// caller's token to expire. An unknown user, a lookup failure and a
// role mismatch all produce the same 403 envelope. It assumes JWTAuth
// has already run and stored the verified email in the context.
func RequireRole(users RoleLookup, required model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := ClaimEmail(c)
			if email == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": "missing bearer token"})
			}
			role, err := users.RoleByEmail(c.Request().Context(), email)
			if err != nil || role != required {
				return c.JSON(http.StatusForbidden, echo.Map{"error": true, "message": "forbidden"})
			}
			return next(c)
		}
	}
}
