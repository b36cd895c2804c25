package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	authmw "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/middleware/auth"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
}

type sessionResponse struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func newSessionResponse(res *service.AuthResult) sessionResponse {
	return sessionResponse{
		ID:           res.User.ID,
		Name:         res.User.Name,
		Email:        res.User.Email,
		Role:         res.User.Role,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.JSON(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		case errors.Is(err, service.ErrUserExists):
			return api.JSON(c, http.StatusBadRequest, api.CodeUserExists, "User already exists")
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
	}

	return c.JSON(http.StatusCreated, newSessionResponse(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return api.JSON(c, http.StatusBadRequest, api.CodeInvalidCredentials, "Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	return c.JSON(http.StatusOK, newSessionResponse(res))
}

// LogOut revokes the presented refresh token; the client discards its
// local session regardless of the outcome.
func (h *AuthHandler) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req struct {
		Token string `json:"token"`
	}
	_ = c.Bind(&req)

	if err := h.Svc.LogOut(ctx, req.Token); err != nil {
		l.Error("logout_failed", "reason", "cannot revoke refresh token", "error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Svc.CurrentUser(ctx, authmw.BearerToken(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoToken):
			return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
		case errors.Is(err, service.ErrTokenExpired):
			return api.JSON(c, http.StatusUnauthorized, api.CodeTokenExpired, "Access token expired")
		case errors.Is(err, service.ErrInvalidToken):
			return api.JSON(c, http.StatusUnauthorized, api.CodeInvalidToken, "Invalid access token")
		case errors.Is(err, service.ErrNotFound):
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "User not found")
		default:
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Token string `json:"token"`
	}
	_ = c.Bind(&req)

	access, _, err := h.Svc.Refresh(ctx, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRefreshToken):
			return api.JSON(c, http.StatusUnauthorized, api.CodeNoRefreshToken, "No refresh token")
		case errors.Is(err, service.ErrRefreshExpired):
			return api.JSON(c, http.StatusUnauthorized, api.CodeRefreshTokenExpired, "Refresh token expired, log in again")
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return api.JSON(c, http.StatusForbidden, api.CodeInvalidRefreshToken, "Invalid refresh token")
		case errors.Is(err, service.ErrNotFound):
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "User not found")
		default:
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": access,
	})
}
