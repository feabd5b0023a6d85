// Package cart is the durable, title-keyed shopping cart shared by every page
// a device visits. Storage problems never reach the caller: an unreadable cart
// behaves as empty and failed writes are logged.
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/events"
	"shelfsync/internal/storage"
)

// Key is the storage key holding the JSON-encoded cart.
const Key = "shelfsync_cart_v1"

// Notifier receives cart-changed broadcasts.
type Notifier interface {
	Publish(ev events.Event)
}

// Manager hands out per-device carts.
type Manager struct {
	devices storage.Devices
	bus     Notifier
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

func NewManager(devices storage.Devices, bus Notifier, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{devices: devices, bus: bus, logger: logger, now: time.Now}
}

// For returns the cart of a device.
func (m *Manager) For(deviceID string) *Cart {
	return &Cart{
		m:      m,
		store:  m.devices.Device(deviceID),
		device: deviceID,
		logger: m.logger.With(zap.String("device", deviceID)),
	}
}

// Cart operates on one device's persisted cart.
type Cart struct {
	m      *Manager
	store  storage.Store
	device string
	logger *zap.Logger
}

// Get returns the persisted lines in insertion order. Missing, unreadable or
// non-array data yields an empty cart.
func (c *Cart) Get(ctx context.Context) []domain.CartLine {
	raw, ok, err := c.store.Get(ctx, Key)
	if err != nil {
		c.logger.Error("read cart", zap.Error(err))
		return []domain.CartLine{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []domain.CartLine{}
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		c.logger.Warn("cart data corrupted, treating as empty", zap.Error(err))
		return []domain.CartLine{}
	}
	if lines == nil {
		return []domain.CartLine{}
	}
	return lines
}

// Add increments the line with the same title or appends a new line with
// quantity 1. The returned cart is the updated one.
func (c *Cart) Add(ctx context.Context, book domain.Book) []domain.CartLine {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	lines := c.Get(ctx)
	if i := indexOf(lines, book.Title); i >= 0 {
		lines[i].Quantity = lines[i].Qty() + 1
	} else {
		lines = append(lines, domain.CartLine{
			Book:     book,
			Quantity: 1,
			AddedAt:  c.m.now().UTC(),
		})
	}
	c.save(ctx, lines)
	return lines
}

// Remove drops every line with the title. Removing an absent title still
// persists and broadcasts, leaving the cart unchanged.
func (c *Cart) Remove(ctx context.Context, title string) []domain.CartLine {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	lines := c.Get(ctx)
	kept := lines[:0]
	for _, line := range lines {
		if line.Title != title {
			kept = append(kept, line)
		}
	}
	c.save(ctx, kept)
	return kept
}

// UpdateQuantity sets the quantity of the line with the title. The raw value
// is coerced like a lenient integer parse: anything non-numeric or below 1
// becomes 1. Unknown titles leave the cart untouched.
func (c *Cart) UpdateQuantity(ctx context.Context, title, raw string) []domain.CartLine {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	lines := c.Get(ctx)
	i := indexOf(lines, title)
	if i < 0 {
		return lines
	}
	lines[i].Quantity = CoerceQuantity(raw)
	c.save(ctx, lines)
	return lines
}

// Clear deletes the persisted cart.
func (c *Cart) Clear(ctx context.Context) []domain.CartLine {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	c.clear(ctx)
	return []domain.CartLine{}
}

// Drain hands the current lines to record and clears the cart once record
// succeeds. No other mutation of any cart runs in between. An error from
// record leaves the cart as it was.
func (c *Cart) Drain(ctx context.Context, record func([]domain.CartLine) error) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	if err := record(c.Get(ctx)); err != nil {
		return err
	}
	c.clear(ctx)
	return nil
}

func (c *Cart) clear(ctx context.Context) {
	if err := c.store.Remove(ctx, Key); err != nil {
		c.logger.Error("clear cart", zap.Error(err))
	}
	c.notify()
}

// Total is the sum of price times quantity.
func (c *Cart) Total(ctx context.Context) float64 {
	return Total(c.Get(ctx))
}

// Count is the sum of quantities.
func (c *Cart) Count(ctx context.Context) int {
	return Count(c.Get(ctx))
}

func (c *Cart) save(ctx context.Context, lines []domain.CartLine) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		c.logger.Error("encode cart", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, Key, string(raw)); err != nil {
		c.logger.Error("write cart", zap.Error(err))
		return
	}
	c.notify()
}

func (c *Cart) notify() {
	if c.m.bus != nil {
		c.m.bus.Publish(events.Event{Topic: events.CartChanged, Scope: c.device})
	}
}

// Total sums price times quantity over lines.
func Total(lines []domain.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}

// Count sums quantities over lines.
func Count(lines []domain.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Qty()
	}
	return count
}

// MaxQuantity caps a single line's quantity.
const MaxQuantity = 1_000_000

// CoerceQuantity parses the leading integer of s (after optional whitespace
// and sign) and clamps it to [1, MaxQuantity].
func CoerceQuantity(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = min(n*10+int(r-'0'), MaxQuantity)
		digits++
	}
	if digits == 0 || neg || n < 1 {
		return 1
	}
	return n
}

func indexOf(lines []domain.CartLine, title string) int {
	for i, line := range lines {
		if line.Title == title {
			return i
		}
	}
	return -1
}
