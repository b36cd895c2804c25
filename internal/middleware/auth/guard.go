package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/tokens"
)

type Guard struct {
	JWTSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{JWTSecret: secret}
}

// RequireAuth rejects requests without a live access token. An expired
// token gets the token_expired code so clients know a refresh is worth
// trying; everything else is terminal for this session.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := BearerToken(c)
		if raw == "" {
			return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
		}

		claims, err := tokens.ParseAccess(raw, g.JWTSecret)
		if err != nil {
			if errors.Is(err, tokens.ErrExpired) {
				return api.JSON(c, http.StatusUnauthorized, api.CodeTokenExpired, "Access token expired")
			}
			return api.JSON(c, http.StatusUnauthorized, api.CodeInvalidToken, "Invalid access token")
		}

		userID, err := tokens.ParseSubject(claims.Subject)
		if err != nil {
			return api.JSON(c, http.StatusUnauthorized, api.CodeInvalidToken, "Invalid access token")
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, models.Role(claims.Role))
		return next(c)
	}
}

func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(CtxRole).(models.Role)
		switch role {
		case models.RoleAdmin:
			return next(c)
		case models.RoleClient:
			return api.JSON(c, http.StatusForbidden, api.CodeForbidden, "Admin access required")
		default:
			return api.JSON(c, http.StatusUnauthorized, api.CodeInvalidToken, "Invalid role")
		}
	}
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(CtxUserID).(uint)
	return id, ok
}
