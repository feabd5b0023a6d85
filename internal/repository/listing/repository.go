package listing

import (
	"context"
	"time"

	"shelfsync/internal/domain"
)

// Listing is a seller-owned row of the books table.
type Listing struct {
	ID         string
	Book       domain.Book
	SalesCount int
	CreatedAt  time.Time
}

// Repository persists seller listings. Titles are unique per seller.
type Repository interface {
	Create(ctx context.Context, l Listing) (*Listing, error)
	Upsert(ctx context.Context, l Listing) (*Listing, error)
	ListAll(ctx context.Context) ([]domain.Book, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Listing, error)
	Count(ctx context.Context) (int, error)
}
