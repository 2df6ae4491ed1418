package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/config"
	"github.com/tropictalks/classhub/internal/utils"
)

// AuthHandler issues bearer tokens. Issuance is deliberately
// unauthenticated: any caller may request a token for an email they
// claim to own. That is a known weakness of the design, preserved
// here on purpose; tightening it would change observable behavior for
// every client.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type tokenReq struct {
	Email string `json:"email"`
}

// Token handles POST /auth/token. It signs a one-hour access token
// whose subject is the supplied email and returns it as {token}.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "email required"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":   access.Token,
		"expires": access.Exp.Format(time.RFC3339),
	})
}
