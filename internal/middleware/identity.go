package middleware

// identity.go enforces identity binding: a caller may only read data
// keyed by their own verified email. Every endpoint that accepts an
// email query or path parameter runs one of these middlewares after
// JWTAuth, which prevents one authenticated learner from reading
// another's selections, enrollments or payment history even when no
// role check applies.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// BindEmailQuery forbids the request when the named query parameter
// carries an email different from the caller's verified one. An empty
// parameter is allowed through; handlers treat it leniently (empty
// listing, not an error).
func BindEmailQuery(param string) echo.MiddlewareFunc {
	return bindEmail(func(c echo.Context) string { return c.QueryParam(param) })
}

// BindEmailParam is BindEmailQuery for path parameters.
func BindEmailParam(param string) echo.MiddlewareFunc {
	return bindEmail(func(c echo.Context) string { return c.Param(param) })
}

func bindEmail(extract func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requested := strings.ToLower(strings.TrimSpace(extract(c)))
			if requested != "" && requested != ClaimEmail(c) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": true, "message": "forbidden"})
			}
			return next(c)
		}
	}
}
