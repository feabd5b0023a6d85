package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfsync/internal/catalog"
)

const (
	catalogWait = 10 * time.Second
	maxPageSize = 100
)

// awaitCatalog blocks until the first load finishes. It reports false after
// writing a 503 when the load outlives the request.
func (h *handlers) awaitCatalog(c *gin.Context) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogWait)
	defer cancel()
	if err := h.deps.Catalog.Wait(ctx); err != nil {
		h.logger.Warn("catalog not ready", zap.Error(err), zap.String("request_id", requestIDFrom(c)))
		writeError(c, http.StatusServiceUnavailable, "catalog_loading", "catalog is still loading")
		return false
	}
	return true
}

func (h *handlers) listBooks(c *gin.Context) {
	if !h.awaitCatalog(c) {
		return
	}
	c.JSON(http.StatusOK, h.deps.Catalog.View(h.parseQuery(c)))
}

func (h *handlers) parseQuery(c *gin.Context) catalog.Query {
	q := catalog.Query{
		Search:        c.Query("q"),
		Sort:          c.Query("sort"),
		Categories:    multiValue(c, "category"),
		Conditions:    multiValue(c, "condition"),
		PriceBrackets: multiValue(c, "price"),
		Page:          1,
		PageSize:      h.deps.PageSize,
	}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(c.Query("pageSize")); err == nil && n > 0 {
		q.PageSize = min(n, maxPageSize)
	}
	if q.PageSize <= 0 {
		q.PageSize = catalog.DefaultPageSize
	}
	return q
}

// multiValue accepts both repeated parameters and comma-separated lists.
func multiValue(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *handlers) getBook(c *gin.Context) {
	if !h.awaitCatalog(c) {
		return
	}
	book, ok := h.deps.Catalog.Find(c.Param("isbn"))
	if !ok {
		writeError(c, http.StatusNotFound, "not_found", "book not found")
		return
	}
	c.JSON(http.StatusOK, bookResponse{Book: book, CoverURL: book.CoverURL(), StockLevel: book.Stock.Level().String(), StockLabel: book.Stock.Label()})
}

func (h *handlers) facets(c *gin.Context) {
	if !h.awaitCatalog(c) {
		return
	}
	categories, conditions := catalog.Facets(h.deps.Catalog.Books())
	c.JSON(http.StatusOK, facetsResponse{
		Categories: nonNil(categories),
		Conditions: nonNil(conditions),
		Prices:     []string{catalog.PriceUnder500, catalog.Price500To1000, catalog.Price1000To2000, catalog.PriceOver2000},
		Sorts:      []string{catalog.SortPriceLow, catalog.SortPriceHigh, catalog.SortTitle},
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
