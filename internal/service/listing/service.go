// Package listing handles seller listings and the dashboard statistics built
// on them.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shelfsync/internal/domain"
	listingrepo "shelfsync/internal/repository/listing"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateTitle = errors.New("seller already lists this title")
)

// SellerRating is shown on every seller dashboard until reviews exist.
const SellerRating = 4.9

// UserCounter counts registered accounts.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type Service struct {
	repo   listingrepo.Repository
	users  UserCounter
	logger *zap.Logger
}

func New(repo listingrepo.Repository, users UserCounter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, users: users, logger: logger.Named("listing")}
}

// AddBookInput is the seller's add-book form.
type AddBookInput struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Condition string  `json:"condition"`
	Stock     string  `json:"stock"`
	ISBN      string  `json:"isbn"`
	Cover     string  `json:"cover"`
}

// AddBook lists a book for the seller.
func (s *Service) AddBook(ctx context.Context, sellerID string, in AddBookInput) (*listingrepo.Listing, error) {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if strings.TrimSpace(sellerID) == "" {
		return nil, fmt.Errorf("%w: seller required", ErrValidation)
	}

	created, err := s.repo.Create(ctx, listingrepo.Listing{Book: domain.Book{
		SellerID:  sellerID,
		Title:     title,
		Author:    author,
		Price:     in.Price,
		Category:  strings.TrimSpace(in.Category),
		Condition: strings.TrimSpace(in.Condition),
		Stock:     domain.ParseStock(in.Stock),
		ISBN:      strings.TrimSpace(in.ISBN),
		Cover:     strings.TrimSpace(in.Cover),
	}})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	s.logger.Info("book listed", zap.String("seller_id", sellerID), zap.String("title", title))
	return created, nil
}

// SellerStats summarizes one seller's listings.
type SellerStats struct {
	ActiveListings int     `json:"activeListings"`
	BooksSold      int     `json:"booksSold"`
	TotalSales     float64 `json:"totalSales"`
	Rating         float64 `json:"rating"`
}

func (s *Service) SellerStats(ctx context.Context, sellerID string) (SellerStats, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return SellerStats{}, err
	}
	stats := SellerStats{ActiveListings: len(rows), Rating: SellerRating}
	for _, l := range rows {
		stats.BooksSold += l.SalesCount
		stats.TotalSales += float64(l.SalesCount) * l.Book.Price
	}
	return stats, nil
}

// Listings returns the seller's books, newest first.
func (s *Service) Listings(ctx context.Context, sellerID string) ([]listingrepo.Listing, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// AdminStats is the platform overview. Orders come from the admin's device
// ledger; there is no central order store.
type AdminStats struct {
	TotalUsers   int     `json:"totalUsers"`
	TotalBooks   int     `json:"totalBooks"`
	TotalOrders  int     `json:"totalOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// AdminStats counts users and listings. Count failures leave that figure at
// zero, as the dashboard did.
func (s *Service) AdminStats(ctx context.Context, orders []domain.Order) AdminStats {
	var stats AdminStats
	if s.users != nil {
		if n, err := s.users.Count(ctx); err != nil {
			s.logger.Warn("count users", zap.Error(err))
		} else {
			stats.TotalUsers = n
		}
	}
	if n, err := s.repo.Count(ctx); err != nil {
		s.logger.Warn("count listings", zap.Error(err))
	} else {
		stats.TotalBooks = n
	}
	stats.TotalOrders = len(orders)
	for _, o := range orders {
		stats.TotalRevenue += o.Totals.Total
	}
	return stats
}
