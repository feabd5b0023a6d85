// Package orders keeps the device-local order history written at checkout.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"shelfsync/internal/cart"
	"shelfsync/internal/domain"
	"shelfsync/internal/events"
	"shelfsync/internal/storage"
)

// Key is the storage key holding the JSON-encoded order list, newest first.
const Key = "shelfsync_orders_v1"

const (
	DeliveryFee = 2.0
	TaxRate     = 0.05
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDelivery = errors.New("delivery full name and address required")
)

// Ledger reads and appends the order history of a device.
type Ledger struct {
	devices storage.Devices
	carts   *cart.Manager
	bus     cart.Notifier
	logger  *zap.Logger
	now     func() time.Time

	// mu serializes read-modify-write of order lists.
	mu sync.Mutex
}

func NewLedger(devices storage.Devices, carts *cart.Manager, bus cart.Notifier, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{devices: devices, carts: carts, bus: bus, logger: logger, now: time.Now}
}

// List returns the device's orders, newest first. Unreadable data is empty.
func (l *Ledger) List(ctx context.Context, deviceID string) []domain.Order {
	raw, ok, err := l.devices.Device(deviceID).Get(ctx, Key)
	if err != nil {
		l.logger.Error("read orders", zap.String("device", deviceID), zap.Error(err))
		return []domain.Order{}
	}
	if !ok {
		return []domain.Order{}
	}
	var out []domain.Order
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		if err != nil {
			l.logger.Warn("orders data corrupted, treating as empty", zap.String("device", deviceID), zap.Error(err))
		}
		return []domain.Order{}
	}
	return out
}

// Recent returns at most n of the newest orders.
func (l *Ledger) Recent(ctx context.Context, deviceID string, n int) []domain.Order {
	all := l.List(ctx, deviceID)
	if n >= 0 && len(all) > n {
		return all[:n]
	}
	return all
}

// Checkout records the device's cart as a pending order and clears the cart.
// Validation happens before anything is written.
func (l *Ledger) Checkout(ctx context.Context, deviceID string, delivery domain.Delivery, paymentMethod string) (domain.Order, error) {
	delivery.FullName = strings.TrimSpace(delivery.FullName)
	delivery.Address = strings.TrimSpace(delivery.Address)
	if delivery.FullName == "" || delivery.Address == "" {
		return domain.Order{}, ErrInvalidDelivery
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var order domain.Order
	err := l.carts.For(deviceID).Drain(ctx, func(lines []domain.CartLine) error {
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, domain.OrderItem{Title: line.Title, Price: line.Price, Qty: line.Qty()})
		}
		now := l.now().UTC()
		order = domain.Order{
			ID:        fmt.Sprintf("ORD-%d", now.UnixMilli()),
			CreatedAt: now,
			Status:    domain.OrderPending,
			Items:     items,
			Totals:    ComputeTotals(items),
			Payment:   domain.Payment{Method: strings.TrimSpace(paymentMethod)},
			Delivery:  delivery,
		}
		existing := l.List(ctx, deviceID)
		if err := l.save(ctx, deviceID, append([]domain.Order{order}, existing...)); err != nil {
			return fmt.Errorf("record order: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// SeedDemo prepends three sample orders and returns the full list.
func (l *Ledger) SeedDemo(ctx context.Context, deviceID string) []domain.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	combined := append(DemoOrders(l.now()), l.List(ctx, deviceID)...)
	if err := l.save(ctx, deviceID, combined); err != nil {
		l.logger.Error("seed demo orders", zap.String("device", deviceID), zap.Error(err))
	}
	return combined
}

func (l *Ledger) save(ctx context.Context, deviceID string, list []domain.Order) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := l.devices.Device(deviceID).Set(ctx, Key, string(raw)); err != nil {
		return err
	}
	if l.bus != nil {
		l.bus.Publish(events.Event{Topic: events.OrdersChanged, Scope: deviceID})
	}
	return nil
}

// ComputeTotals applies the flat delivery fee and tax, rounded to cents.
func ComputeTotals(items []domain.OrderItem) domain.OrderTotals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Qty)
	}
	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * TaxRate)
	return domain.OrderTotals{
		Subtotal: subtotal,
		Delivery: DeliveryFee,
		Tax:      tax,
		Total:    roundCents(subtotal + DeliveryFee + tax),
	}
}

// NextAction is the seller's next step for an order in the given status.
func NextAction(status string) string {
	switch strings.ToLower(status) {
	case "pending", "processing":
		return "Ship"
	case "shipped":
		return "Track"
	default:
		return "View"
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
