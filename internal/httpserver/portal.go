package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/orders"
	listingsvc "shelfsync/internal/service/listing"
)

const recentOrders = 5

type checkoutRequest struct {
	Delivery      domain.Delivery `json:"delivery"`
	PaymentMethod string          `json:"paymentMethod"`
}

func (h *handlers) customerOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.deps.Orders.List(c.Request.Context(), deviceFrom(c))})
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	order, err := h.deps.Orders.Checkout(c.Request.Context(), deviceFrom(c), req.Delivery, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidDelivery):
			writeError(c, http.StatusBadRequest, "invalid_input", "full name and address are required")
		case errors.Is(err, orders.ErrEmptyCart):
			writeError(c, http.StatusConflict, "empty_cart", "your cart is empty")
		default:
			h.logger.Error("checkout", zap.String("device", deviceFrom(c)), zap.Error(err))
			writeError(c, http.StatusInternalServerError, "internal_error", "could not place order")
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) sellerListings(c *gin.Context) {
	acc := accountFrom(c)
	rows, err := h.deps.Listings.Listings(c.Request.Context(), acc.ID)
	if err != nil {
		h.logger.Error("list seller books", zap.String("seller_id", acc.ID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "could not load listings")
		return
	}
	out := make([]listingResponse, 0, len(rows))
	for _, l := range rows {
		out = append(out, toListingResponse(l))
	}
	c.JSON(http.StatusOK, gin.H{"listings": out})
}

func (h *handlers) addListing(c *gin.Context) {
	var req listingsvc.AddBookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	acc := accountFrom(c)
	created, err := h.deps.Listings.AddBook(c.Request.Context(), acc.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, listingsvc.ErrValidation):
			writeError(c, http.StatusBadRequest, "invalid_input", err.Error())
		case errors.Is(err, listingsvc.ErrDuplicateTitle):
			writeError(c, http.StatusConflict, "duplicate_title", "you already list a book with this title")
		default:
			h.logger.Error("add book", zap.String("seller_id", acc.ID), zap.Error(err))
			writeError(c, http.StatusInternalServerError, "internal_error", "could not add book")
		}
		return
	}
	c.JSON(http.StatusCreated, toListingResponse(*created))
}

func (h *handlers) sellerStats(c *gin.Context) {
	acc := accountFrom(c)
	stats, err := h.deps.Listings.SellerStats(c.Request.Context(), acc.ID)
	if err != nil {
		h.logger.Error("seller stats", zap.String("seller_id", acc.ID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "could not load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) sellerRecentOrders(c *gin.Context) {
	n := recentOrders
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		n = v
	}
	c.JSON(http.StatusOK, gin.H{"orders": summarize(h.deps.Orders.Recent(c.Request.Context(), deviceFrom(c), n))})
}

func (h *handlers) seedDemoOrders(c *gin.Context) {
	list := h.deps.Orders.SeedDemo(c.Request.Context(), deviceFrom(c))
	c.JSON(http.StatusOK, gin.H{"orders": summarize(list)})
}

func (h *handlers) adminStats(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, h.deps.Listings.AdminStats(ctx, h.deps.Orders.List(ctx, deviceFrom(c))))
}

func summarize(list []domain.Order) []orderSummary {
	out := make([]orderSummary, 0, len(list))
	for _, o := range list {
		out = append(out, orderSummary{Order: o, NextAction: orders.NextAction(o.Status)})
	}
	return out
}
