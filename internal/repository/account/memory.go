package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfsync/internal/domain"
)

// Memory is an in-process Repository for tests and database-less runs.
type Memory struct {
	mu       sync.RWMutex
	byID     map[string]domain.Account
	emailIdx map[string]string
}

func NewMemory() *Memory {
	return &Memory{byID: map[string]domain.Account{}, emailIdx: map[string]string{}}
}

func (m *Memory) Create(_ context.Context, a domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(a.Email))
	if _, ok := m.emailIdx[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	a.ID = uuid.NewString()
	a.Email = email
	a.CreatedAt = time.Now().UTC()
	m.byID[a.ID] = a
	m.emailIdx[email] = a.ID
	return &a, nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emailIdx[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a := m.byID[id]
	return &a, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}
