package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
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
	"shelfsync/internal/storage"
)

const testDevice = "5b1f8c2e-3d4a-4f6b-9c7d-8e9f0a1b2c3d"

var testBooks = []domain.Book{
	{ISBN: "111", Title: "Dune", Author: "Frank Herbert", Price: 450, Category: "FICTION", Condition: "NEW", Stock: domain.StockLabel("In Stock")},
	{ISBN: "222", Title: "Emma", Author: "Jane Austen", Price: 1200, Category: "CLASSICS", Condition: "USED", Stock: domain.StockCount(3)},
	{ISBN: "333", Title: "Atomic Habits", Author: "James Clear", Price: 800, Category: "SELF-HELP", Condition: "NEW"},
}

type stubAuth struct {
	sessions  map[string]*domain.Account
	signInErr error
	signUpErr error
	roleErr   error
	signedOut []string
}

func (s *stubAuth) SignUp(_ context.Context, in authsvc.SignupInput) (*domain.Account, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	role, _ := domain.ParseRole(in.Role)
	return &domain.Account{ID: "new-user", Email: in.Email, Role: role}, nil
}

func (s *stubAuth) SignIn(_ context.Context, email, _ string, role domain.Role) (*domain.Account, authsvc.Session, error) {
	if s.signInErr != nil {
		return nil, authsvc.Session{}, s.signInErr
	}
	return &domain.Account{ID: "u-1", Email: email, Role: role}, authsvc.Session{Token: "tok-1"}, nil
}

func (s *stubAuth) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

func (s *stubAuth) User(_ context.Context, token string) (*domain.Account, error) {
	if acc, ok := s.sessions[token]; ok {
		return acc, nil
	}
	return nil, authsvc.ErrInvalidToken
}

func (s *stubAuth) Role(_ context.Context, userID string) (domain.Role, error) {
	if s.roleErr != nil {
		return "", s.roleErr
	}
	for _, acc := range s.sessions {
		if acc.ID == userID {
			return acc.Role, nil
		}
	}
	return "", domain.ErrNotFound
}

func (s *stubAuth) SessionTTLSeconds() int { return 3600 }

type stubListings struct {
	added    []listingsvc.AddBookInput
	addErr   error
	listings []listingrepo.Listing
	stats    listingsvc.SellerStats
	orders   []domain.Order
}

func (s *stubListings) AddBook(_ context.Context, sellerID string, in listingsvc.AddBookInput) (*listingrepo.Listing, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = append(s.added, in)
	return &listingrepo.Listing{ID: "l-1", Book: domain.Book{Title: in.Title, Author: in.Author, Price: in.Price, SellerID: sellerID}}, nil
}

func (s *stubListings) Listings(_ context.Context, _ string) ([]listingrepo.Listing, error) {
	return s.listings, nil
}

func (s *stubListings) SellerStats(_ context.Context, _ string) (listingsvc.SellerStats, error) {
	return s.stats, nil
}

func (s *stubListings) AdminStats(_ context.Context, orders []domain.Order) listingsvc.AdminStats {
	s.orders = orders
	return listingsvc.AdminStats{TotalUsers: 7, TotalBooks: 3, TotalOrders: len(orders)}
}

type harness struct {
	router   *gin.Engine
	deps     Deps
	auth     *stubAuth
	listings *stubListings
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	devices := storage.NewMemory()
	bus := events.NewBus()
	carts := cart.NewManager(devices, bus, zap.NewNop())
	engine := catalog.NewEngine(
		catalog.SourceFunc(func(context.Context) ([]domain.Book, error) { return testBooks, nil }),
		catalog.SourceFunc(func(context.Context) ([]domain.Book, error) { return nil, nil }),
		zap.NewNop(),
	)
	engine.Load(context.Background())

	auth := &stubAuth{sessions: map[string]*domain.Account{
		"customer-token": {ID: "c-1", Email: "c@example.com", Role: domain.RoleCustomer},
		"seller-token":   {ID: "s-1", Email: "s@example.com", Role: domain.RoleSeller},
		"admin-token":    {ID: "a-1", Email: "a@example.com", Role: domain.RoleAdmin},
	}}
	listings := &stubListings{}
	deps := Deps{
		Catalog:  engine,
		Carts:    carts,
		Orders:   orders.NewLedger(devices, carts, bus, zap.NewNop()),
		Likes:    likes.New(devices, zap.NewNop()),
		Bus:      bus,
		Devices:  devicesvc.New(),
		Auth:     auth,
		Listings: listings,
		Logger:   zap.NewNop(),
	}
	router, _, err := buildRouter(deps)
	require.NoError(t, err)
	return &harness{router: router, deps: deps, auth: auth, listings: listings}
}

type reqOpt func(*http.Request)

func withToken(tok string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func withoutDevice() reqOpt {
	return func(r *http.Request) { r.Header.Del(headerDeviceID) }
}

func (h *harness) do(method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerDeviceID, testDevice)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
