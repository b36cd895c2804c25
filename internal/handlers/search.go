package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/api"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/search"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return api.JSON(c, http.StatusServiceUnavailable, api.CodeInternal, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return api.JSON(c, http.StatusBadRequest, api.CodeValidation, "query is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, services, err := search.Query(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return api.JSON(c, http.StatusInternalServerError, api.CodeInternal, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "services": services})
}
