package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"shelfsync/internal/domain"
)

// Source yields catalog records.
type Source interface {
	Books(ctx context.Context) ([]domain.Book, error)
}

// Document is the static catalog file layout: {"books": [...]}.
type Document struct {
	Books []domain.Book `json:"books"`
}

var errNoBooks = errors.New("catalog document has no books")

// StaticSource reads the bundled catalog document from a file path or an
// http(s) URL.
type StaticSource struct {
	location   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewStaticSource(location string) *StaticSource {
	return &StaticSource{
		location:   location,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (s *StaticSource) Books(ctx context.Context) ([]domain.Book, error) {
	var (
		raw []byte
		err error
	)
	if isURL(s.location) {
		raw, err = s.fetch(ctx)
	} else {
		raw, err = os.ReadFile(s.location)
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog document: %w", err)
	}
	if len(doc.Books) == 0 {
		return nil, errNoBooks
	}
	return doc.Books, nil
}

func (s *StaticSource) fetch(ctx context.Context) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// Lister returns every seller-listed book.
type Lister interface {
	ListAll(ctx context.Context) ([]domain.Book, error)
}

// SellerSource adapts seller listings into catalog records, filling the
// fields sellers may leave blank.
type SellerSource struct {
	lister Lister
}

func NewSellerSource(lister Lister) *SellerSource {
	return &SellerSource{lister: lister}
}

func (s *SellerSource) Books(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.lister.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(rows))
	for _, b := range rows {
		out = append(out, withSellerDefaults(b))
	}
	return out, nil
}

func withSellerDefaults(b domain.Book) domain.Book {
	if b.Stock.IsZero() {
		b.Stock = domain.StockLabel(domain.StockIn.String())
	}
	if strings.TrimSpace(b.ISBN) == "" {
		b.ISBN = uuid.NewString()
	}
	if strings.TrimSpace(b.Cover) == "" {
		b.Cover = domain.PlaceholderCover
	}
	if b.Gradient == "" {
		b.Gradient = "sapiens"
	}
	return b
}

// SourceFunc lets a plain function act as a Source.
type SourceFunc func(ctx context.Context) ([]domain.Book, error)

func (f SourceFunc) Books(ctx context.Context) ([]domain.Book, error) { return f(ctx) }
