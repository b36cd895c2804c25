package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/events"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	authmw "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/middleware/auth"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
)

type CartHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

func (h *CartHandler) publish(c echo.Context, userID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, "cart_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	items, err := h.Repo.CartItems(c.Request().Context(), userID)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	var req struct {
		ServiceID uint `json:"service_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()

	if _, err := h.Repo.ServiceByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "service not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	item, err := h.Repo.CartItemByService(ctx, userID, req.ServiceID)
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if err := h.Repo.SaveCartItem(ctx, item); err != nil {
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
	case errors.Is(err, repo.ErrNotFound):
		item = &models.CartItem{
			UserID:    userID,
			ServiceID: req.ServiceID,
			Quantity:  req.Quantity,
		}
		if err := h.Repo.CreateCartItem(ctx, item); err != nil {
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
	default:
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	h.publish(c, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"serviceID": req.ServiceID,
		"quantity":  item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

// DeleteOneFromCart decrements a line by one, dropping the line when the
// last unit goes.
func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid id")
	}

	ctx := c.Request().Context()
	item, err := h.Repo.CartItemByID(ctx, uint(id), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "item not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	if item.Quantity > 1 {
		item.Quantity--
		if err := h.Repo.SaveCartItem(ctx, item); err != nil {
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
	} else {
		if err := h.Repo.DeleteCartItem(ctx, item.ID, userID); err != nil {
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
		item.Quantity = 0
	}

	h.publish(c, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"serviceID": item.ServiceID,
		"quantity":  item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteLineFromCart(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid id")
	}

	ctx := c.Request().Context()
	item, err := h.Repo.CartItemByID(ctx, uint(id), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "item not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	if err := h.Repo.DeleteCartItem(ctx, item.ID, userID); err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	h.publish(c, userID, map[string]any{
		"type":      "cart_line_removed",
		"userID":    userID,
		"serviceID": item.ServiceID,
	})

	return c.NoContent(http.StatusNoContent)
}
