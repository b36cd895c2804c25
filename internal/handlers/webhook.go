package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/drive"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/events"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/mail"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/payments"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
)

// WebhookHandler receives payment-provider callbacks. Signature first,
// then dispatch; unknown event types are acknowledged so the provider
// stops retrying them.
type WebhookHandler struct {
	Repo     *repo.GormRepo
	Secret   []byte
	Drive    *drive.Client
	Mail     *mail.Client
	Producer *events.Producer
}

func (h *WebhookHandler) HandlePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_webhook")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "cannot read body")
	}

	sig := c.Request().Header.Get(payments.SignatureHeader)
	if err := payments.Verify(payload, sig, h.Secret); err != nil {
		l.Warn("webhook_rejected", "reason", "bad signature")
		return api.JSON(c, http.StatusBadRequest, api.CodeInvalidSignature, "invalid signature")
	}

	event, err := payments.ParseEvent(payload)
	if err != nil {
		l.Warn("webhook_rejected", "reason", "malformed event", "error", err)
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "malformed event")
	}

	switch event.Type {
	case payments.EventCheckoutCompleted:
		return h.handleCheckoutCompleted(c, event)
	default:
		l.Info("webhook_ignored", "event_type", event.Type)
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}
}

func (h *WebhookHandler) handleCheckoutCompleted(c echo.Context, event *payments.Event) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_webhook", "order", event.Data.OrderNumber)

	order, err := h.Repo.OrderByNumber(ctx, event.Data.OrderNumber)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("webhook_rejected", "reason", "unknown order")
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "order not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	// Providers redeliver; a paid order is acknowledged unchanged.
	if order.Status == models.OrderStatusPaid {
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	user, err := h.Repo.UserByID(ctx, order.UserID)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	folderID := ""
	if h.Drive.Enabled() {
		folderID, err = h.Drive.CreateProjectFolder(ctx, user.Email, "order-"+order.Number)
		if err != nil {
			l.Error("folder provisioning failed", "error", err)
			return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "folder provisioning failed")
		}
	}

	if err := h.Repo.MarkOrderPaid(ctx, order.Number, folderID); err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	if h.Mail.Enabled() {
		subject := "Your editing order is confirmed"
		html := fmt.Sprintf("<p>Hi %s,</p><p>Order <b>%s</b> is paid. Upload your footage to your project folder and we will take it from there.</p>",
			user.Name, order.Number)
		if err := h.Mail.Send(ctx, user.Email, subject, html); err != nil {
			l.Error("receipt email failed", "error", err)
		}
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(pubCtx, "order_events", order.Number, map[string]any{
		"type":        "order_paid",
		"orderNumber": order.Number,
		"userID":      order.UserID,
		"folderID":    folderID,
	}); err != nil {
		l.Error("kafka publish error", "error", err)
	}

	l.Info("order_paid", "user_id", order.UserID)
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
