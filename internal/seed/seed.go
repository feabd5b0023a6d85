// Package seed loads demo accounts and seller listings for manual testing.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shelfsync/internal/domain"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "shelfsync123"

type accountSeed struct {
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
}

type listingSeed struct {
	ISBN       string
	Title      string
	Author     string
	Price      float64
	Category   string
	Condition  string
	Stock      string
	SalesCount int
}

// DemoSeller is the account that owns the seeded listings.
const DemoSeller = "seller@shelfsync.test"

func demoAccounts() []accountSeed {
	return []accountSeed{
		{Email: "customer@shelfsync.test", FirstName: "Asha", LastName: "Rao", Role: domain.RoleCustomer},
		{Email: DemoSeller, FirstName: "Vikram", LastName: "Shah", Role: domain.RoleSeller},
		{Email: "admin@shelfsync.test", FirstName: "Meera", LastName: "Iyer", Role: domain.RoleAdmin},
	}
}

func demoListings() []listingSeed {
	return []listingSeed{
		{ISBN: "9780143127741", Title: "The Overstory", Author: "Richard Powers", Price: 649, Category: "FICTION", Condition: "LIKE NEW", Stock: "In Stock", SalesCount: 4},
		{ISBN: "9780062316110", Title: "Sapiens (Annotated)", Author: "Yuval Noah Harari", Price: 899, Category: "HISTORY", Condition: "GOOD", Stock: "3", SalesCount: 7},
		{ISBN: "9780735211292", Title: "Atomic Habits (Signed)", Author: "James Clear", Price: 1499, Category: "SELF-HELP", Condition: "NEW", Stock: "Limited Stock", SalesCount: 2},
		{ISBN: "", Title: "Poems from the Hills", Author: "Local Press", Price: 199, Category: "POETRY", Condition: "USED", Stock: "", SalesCount: 0},
	}
}

// Apply inserts the demo data. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ids := make(map[string]string)
	for _, a := range demoAccounts() {
		id, err := upsertAccount(ctx, pool, a, string(hash))
		if err != nil {
			return fmt.Errorf("upsert account %s: %w", a.Email, err)
		}
		ids[a.Email] = id
		logger.Info("account seeded", zap.String("email", a.Email), zap.String("role", string(a.Role)))
	}

	sellerID := ids[DemoSeller]
	for _, l := range demoListings() {
		if err := upsertListing(ctx, pool, sellerID, l); err != nil {
			return fmt.Errorf("upsert listing %q: %w", l.Title, err)
		}
	}
	logger.Info("listings seeded", zap.String("seller_id", sellerID), zap.Int("count", len(demoListings())))
	return nil
}

func upsertAccount(ctx context.Context, pool *pgxpool.Pool, a accountSeed, hash string) (string, error) {
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ((lower(email))) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    role = EXCLUDED.role
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, a.Email, hash, a.FirstName, a.LastName, string(a.Role)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertListing(ctx context.Context, pool *pgxpool.Pool, sellerID string, l listingSeed) error {
	const q = `
INSERT INTO books (seller_id, isbn, title, author, price, category, condition, stock, sales_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (seller_id, title) DO UPDATE
SET isbn = EXCLUDED.isbn,
    author = EXCLUDED.author,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    condition = EXCLUDED.condition,
    stock = EXCLUDED.stock,
    sales_count = EXCLUDED.sales_count
`
	_, err := pool.Exec(ctx, q, sellerID, l.ISBN, l.Title, l.Author, l.Price, l.Category, l.Condition, l.Stock, l.SalesCount)
	return err
}
