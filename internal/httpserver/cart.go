package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfsync/internal/cart"
	"shelfsync/internal/domain"
	"shelfsync/internal/events"
)

type addToCartRequest struct {
	ISBN string       `json:"isbn"`
	Book *domain.Book `json:"book"`
}

// updateQuantityRequest takes the quantity as typed into the form: a number
// or free text.
type updateQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

func (r updateQuantityRequest) raw() string {
	var s string
	if err := json.Unmarshal(r.Quantity, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Quantity))
}

func cartBody(lines []domain.CartLine) cartResponse {
	return cartResponse{Items: nonNil(lines), Total: cart.Total(lines), Count: cart.Count(lines)}
}

func (h *handlers) getCart(c *gin.Context) {
	lines := h.deps.Carts.For(deviceFrom(c)).Get(c.Request.Context())
	c.JSON(http.StatusOK, cartBody(lines))
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	var book domain.Book
	switch {
	case strings.TrimSpace(req.ISBN) != "":
		if !h.awaitCatalog(c) {
			return
		}
		found, ok := h.deps.Catalog.Find(strings.TrimSpace(req.ISBN))
		if !ok {
			writeError(c, http.StatusNotFound, "not_found", "book not found")
			return
		}
		book = found
	case req.Book != nil && strings.TrimSpace(req.Book.Title) != "":
		book = *req.Book
	default:
		writeError(c, http.StatusBadRequest, "invalid_input", "isbn or book with a title is required")
		return
	}

	lines := h.deps.Carts.For(deviceFrom(c)).Add(c.Request.Context(), book)
	c.JSON(http.StatusOK, cartBody(lines))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	lines := h.deps.Carts.For(deviceFrom(c)).UpdateQuantity(c.Request.Context(), c.Param("title"), req.raw())
	c.JSON(http.StatusOK, cartBody(lines))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	lines := h.deps.Carts.For(deviceFrom(c)).Remove(c.Request.Context(), c.Param("title"))
	c.JSON(http.StatusOK, cartBody(lines))
}

func (h *handlers) clearCart(c *gin.Context) {
	lines := h.deps.Carts.For(deviceFrom(c)).Clear(c.Request.Context())
	c.JSON(http.StatusOK, cartBody(lines))
}

// cartEvents streams the device's cart as server-sent events: one snapshot on
// connect, then one per change.
func (h *handlers) cartEvents(c *gin.Context) {
	device := deviceFrom(c)
	ch, unsubscribe := h.deps.Bus.Subscribe(events.CartChanged)
	defer unsubscribe()

	ctx := c.Request.Context()
	store := h.deps.Carts.For(device)
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(events.CartChanged, cartBody(store.Get(ctx)))
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			if ev.Scope != device {
				return true
			}
			c.SSEvent(events.CartChanged, cartBody(store.Get(ctx)))
			return true
		}
	})
	h.logger.Debug("cart stream closed", zap.String("device", device))
}
