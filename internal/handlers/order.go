package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/events"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	authmw "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/middleware/auth"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/util"
)

type OrderHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, "order_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

// Checkout turns the current cart into a pending order. Line items
// snapshot the catalog name and price at this moment.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	ctx := c.Request().Context()

	items, err := h.Repo.CartItems(ctx, userID)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
	if len(items) == 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "cart is empty")
	}

	order := models.Order{
		Number: uuid.NewString(),
		UserID: userID,
		Status: models.OrderStatusPending,
	}
	for _, item := range items {
		svc, err := h.Repo.ServiceByID(ctx, item.ServiceID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return api.JSON(c, http.StatusBadRequest, api.CodeValidation,
					fmt.Sprintf("service %d is no longer available", item.ServiceID))
			}
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
		order.Items = append(order.Items, models.OrderItem{
			ServiceID:  svc.ID,
			Name:       svc.Name,
			PriceCents: svc.PriceCents,
			Quantity:   item.Quantity,
		})
		order.TotalCents += svc.PriceCents * int64(item.Quantity)
	}

	if err := h.Repo.CreateOrderFromCart(ctx, &order); err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	h.publish(c, order.Number, map[string]any{
		"type":        "order_created",
		"orderNumber": order.Number,
		"userID":      userID,
		"totalCents":  order.TotalCents,
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOwn(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	orders, err := h.Repo.OrdersByUser(c.Request().Context(), userID)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOwn(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return api.JSON(c, http.StatusUnauthorized, api.CodeNoToken, "No token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid id")
	}

	order, err := h.Repo.OrderByID(c.Request().Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "order not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AdminList(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Repo.ListOrders(c.Request().Context(), offset, limit)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
