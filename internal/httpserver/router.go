package httpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfsync/internal/cart"
	"shelfsync/internal/catalog"
	"shelfsync/internal/domain"
	"shelfsync/internal/events"
	"shelfsync/internal/likes"
	"shelfsync/internal/orders"
	listingrepo "shelfsync/internal/repository/listing"
	authsvc "shelfsync/internal/service/auth"
	devicesvc "shelfsync/internal/service/device"
	listingsvc "shelfsync/internal/service/listing"
)

// CatalogView is the read side of the catalog engine.
type CatalogView interface {
	View(q catalog.Query) catalog.Page
	Find(isbn string) (domain.Book, bool)
	Books() []domain.Book
	Wait(ctx context.Context) error
	State() catalog.State
}

// AuthService is the identity service used by the auth routes and guards.
type AuthService interface {
	SignUp(ctx context.Context, in authsvc.SignupInput) (*domain.Account, error)
	SignIn(ctx context.Context, email, password string, role domain.Role) (*domain.Account, authsvc.Session, error)
	SignOut(ctx context.Context, token string) error
	User(ctx context.Context, token string) (*domain.Account, error)
	Role(ctx context.Context, userID string) (domain.Role, error)
	SessionTTLSeconds() int
}

type ListingService interface {
	AddBook(ctx context.Context, sellerID string, in listingsvc.AddBookInput) (*listingrepo.Listing, error)
	Listings(ctx context.Context, sellerID string) ([]listingrepo.Listing, error)
	SellerStats(ctx context.Context, sellerID string) (listingsvc.SellerStats, error)
	AdminStats(ctx context.Context, orders []domain.Order) listingsvc.AdminStats
}

// Deps are the collaborators the router needs.
type Deps struct {
	Catalog  CatalogView
	Carts    *cart.Manager
	Orders   *orders.Ledger
	Likes    *likes.Store
	Bus      *events.Bus
	Devices  *devicesvc.Service
	Auth     AuthService
	Listings ListingService
	// Ready reports backing store health for /readyz. Optional.
	Ready func(ctx context.Context) error
	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	PageSize       int
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("catalog is required")
	case d.Carts == nil:
		return errors.New("cart manager is required")
	case d.Orders == nil:
		return errors.New("order ledger is required")
	case d.Likes == nil:
		return errors.New("likes store is required")
	case d.Bus == nil:
		return errors.New("event bus is required")
	case d.Devices == nil:
		return errors.New("device service is required")
	case d.Auth == nil:
		return errors.New("auth service is required")
	case d.Listings == nil:
		return errors.New("listing service is required")
	}
	return nil
}

// buildRouter wires routes for the API. The returned limiter is nil when
// rate limiting is disabled.
func buildRouter(deps Deps) (*gin.Engine, *rateLimiter, error) {
	if err := deps.validate(); err != nil {
		return nil, nil, fmt.Errorf("httpserver: %w", err)
	}
	logger := deps.logger()
	h := &handlers{deps: deps, logger: logger}

	router := gin.New()
	// Cart lines are keyed by title, and titles may contain an escaped "/".
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(requestIDMiddleware(), recoveryMiddleware(logger), accessLogMiddleware(logger), corsMiddleware(deps.CORSOrigins))
	var limiter *rateLimiter
	if deps.RateLimitRPS > 0 {
		limiter = newRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst)
		router.Use(limiter.middleware())
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps))

	api := router.Group("/api", deviceMiddleware(deps.Devices))
	api.GET("/books", h.listBooks)
	api.GET("/books/:isbn", h.getBook)
	api.GET("/facets", h.facets)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.addToCart)
	api.PATCH("/cart/items/:title", h.updateCartItem)
	api.DELETE("/cart/items/:title", h.removeFromCart)
	api.DELETE("/cart", h.clearCart)
	api.GET("/cart/events", h.cartEvents)

	api.GET("/likes/:isbn", h.getLike)
	api.PUT("/likes/:isbn", h.toggleLike)

	api.POST("/auth/signup", h.signUp)
	api.POST("/auth/login/:role", h.signIn)
	api.POST("/auth/logout", h.signOut)
	api.GET("/auth/me", h.me)

	id := identity{auth: deps.Auth}

	customer := router.Group("/customer", deviceMiddleware(deps.Devices), requireRole(id, domain.RoleCustomer))
	customer.GET("/orders", h.customerOrders)
	customer.POST("/checkout", h.checkout)

	seller := router.Group("/seller", deviceMiddleware(deps.Devices), requireRole(id, domain.RoleSeller))
	seller.GET("/books", h.sellerListings)
	seller.POST("/books", h.addListing)
	seller.GET("/stats", h.sellerStats)
	seller.GET("/orders/recent", h.sellerRecentOrders)
	seller.POST("/orders/demo", h.seedDemoOrders)

	admin := router.Group("/admin", deviceMiddleware(deps.Devices), requireRole(id, domain.RoleAdmin))
	admin.GET("/stats", h.adminStats)

	return router, limiter, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
