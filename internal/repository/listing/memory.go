package listing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfsync/internal/domain"
)

// Memory keeps listings in insertion order.
type Memory struct {
	mu   sync.RWMutex
	rows []Listing
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) find(sellerID, title string) int {
	for i, l := range m.rows {
		if l.Book.SellerID == sellerID && strings.EqualFold(l.Book.Title, title) {
			return i
		}
	}
	return -1
}

func (m *Memory) Create(_ context.Context, l Listing) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(l.Book.SellerID, l.Book.Title) >= 0 {
		return nil, domain.ErrAlreadyExists
	}
	l.ID = uuid.NewString()
	l.CreatedAt = m.now().UTC()
	m.rows = append(m.rows, l)
	return &l, nil
}

func (m *Memory) Upsert(_ context.Context, l Listing) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.find(l.Book.SellerID, l.Book.Title); i >= 0 {
		l.ID = m.rows[i].ID
		l.CreatedAt = m.rows[i].CreatedAt
		l.SalesCount = m.rows[i].SalesCount
		m.rows[i] = l
		return &l, nil
	}
	l.ID = uuid.NewString()
	l.CreatedAt = m.now().UTC()
	m.rows = append(m.rows, l)
	return &l, nil
}

func (m *Memory) ListAll(context.Context) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Book, 0, len(m.rows))
	for _, l := range m.rows {
		out = append(out, l.Book)
	}
	return out, nil
}

func (m *Memory) ListBySeller(_ context.Context, sellerID string) ([]Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Listing
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Book.SellerID == sellerID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}
