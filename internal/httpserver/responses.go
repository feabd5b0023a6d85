package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"shelfsync/internal/domain"
	listingrepo "shelfsync/internal/repository/listing"
)

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Redirect  string `json:"redirect,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: message, RequestID: requestIDFrom(c)})
}

func writeRedirect(c *gin.Context, status int, code, message, redirect string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: message, Redirect: redirect, RequestID: requestIDFrom(c)})
}

type bookResponse struct {
	domain.Book
	CoverURL   string `json:"coverUrl"`
	StockLevel string `json:"stockLevel"`
	StockLabel string `json:"stockLabel"`
}

type facetsResponse struct {
	Categories []string `json:"categories"`
	Conditions []string `json:"conditions"`
	Prices     []string `json:"prices"`
	Sorts      []string `json:"sorts"`
}

type cartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

type sessionResponse struct {
	Account   *domain.Account `json:"account"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Redirect  string          `json:"redirect"`
}

type orderSummary struct {
	domain.Order
	NextAction string `json:"nextAction"`
}

type listingResponse struct {
	ID         string      `json:"id"`
	Book       domain.Book `json:"book"`
	SalesCount int         `json:"salesCount"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func toListingResponse(l listingrepo.Listing) listingResponse {
	return listingResponse{ID: l.ID, Book: l.Book, SalesCount: l.SalesCount, CreatedAt: l.CreatedAt}
}
