package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// emailKey is the context key under which JWTAuth stores the verified
// subject email.
const emailKey = "email"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject email into the request
// context. The provided secret must match the one used when issuing
// tokens. Verification is stateless: signature and expiry only, no
// store access. A missing header, a bad signature and an elapsed
// expiry all produce the same 401 envelope so that an unauthenticated
// caller never learns which check failed.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 enforced; a token signed with any other
			// method is rejected before the secret is ever applied.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": true, "message": "invalid claims"})
			}

			c.Set(emailKey, strings.ToLower(sub))
			return next(c)
		}
	}
}

// ClaimEmail returns the verified email stored by JWTAuth, or "" when
// the request was not authenticated.
func ClaimEmail(c echo.Context) string {
	v, _ := c.Get(emailKey).(string)
	return v
}
