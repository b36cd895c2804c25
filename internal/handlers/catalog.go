package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/events"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/search"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/util"
)

// CatalogHandler serves the editing-service catalog: public reads,
// admin writes, Elasticsearch kept in step with every write.
type CatalogHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	ES       *elasticsearch.Client
	Index    string
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *CatalogHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, "catalog_events", fmt.Sprint(event["serviceID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CatalogHandler) index(c echo.Context, svc models.Service) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexService(ctx, h.ES, h.Index, svc); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index error", "error", err)
	}
}

func (h *CatalogHandler) GetService(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid id")
	}

	svc, err := h.Repo.ServiceByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "service not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	return c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) GetServices(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	items, total, err := h.Repo.ListServices(c.Request().Context(), offset, limit)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

type serviceRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"price_cents"`
	TurnaroundDays uint   `json:"turnaround_days"`
	Active         *bool  `json:"active"`
}

func (h *CatalogHandler) CreateService(c echo.Context) error {
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid body")
	}
	if req.Name == "" || req.PriceCents <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "name and a positive price are required")
	}

	svc := models.Service{
		Name:           req.Name,
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		TurnaroundDays: req.TurnaroundDays,
		Active:         true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.Repo.CreateService(c.Request().Context(), &svc); err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	h.index(c, svc)
	h.publish(c, map[string]any{
		"type":      "service_created",
		"serviceID": svc.ID,
		"name":      svc.Name,
	})

	return c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) PatchService(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid id")
	}

	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid body")
	}

	svc, err := h.Repo.ServiceByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.JSON(c, http.StatusNotFound, api.CodeNotFound, "service not found")
		}
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.Description != "" {
		svc.Description = req.Description
	}
	if req.PriceCents > 0 {
		svc.PriceCents = req.PriceCents
	}
	if req.TurnaroundDays > 0 {
		svc.TurnaroundDays = req.TurnaroundDays
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.Repo.SaveService(c.Request().Context(), svc); err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	h.index(c, *svc)
	h.publish(c, map[string]any{
		"type":      "service_updated",
		"serviceID": svc.ID,
		"name":      svc.Name,
	})

	return c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteService(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "invalid id")
	}

	if err := h.Repo.DeleteService(c.Request().Context(), uint(id)); err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.DeleteService(ctx, h.ES, h.Index, uint(id)); err != nil {
		logging.FromContext(c.Request().Context()).Error("es delete error", "error", err)
	}

	h.publish(c, map[string]any{
		"type":      "service_deleted",
		"serviceID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
