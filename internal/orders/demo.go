package orders

import (
	"fmt"
	"time"

	"shelfsync/internal/domain"
)

// DemoOrders returns one pending, one shipped and one delivered order dated
// one, two and three days before now.
func DemoOrders(now time.Time) []domain.Order {
	day := 24 * time.Hour
	at := func(days int) time.Time { return now.Add(-time.Duration(days) * day).UTC() }
	ptr := func(t time.Time) *time.Time { return &t }

	return []domain.Order{
		{
			ID:        fmt.Sprintf("ORD-%d", at(1).UnixMilli()),
			CreatedAt: at(1),
			Status:    domain.OrderPending,
			Items:     []domain.OrderItem{{Title: "Atomic Habits", Price: 16.99, Qty: 1}},
			Totals:    domain.OrderTotals{Subtotal: 16.99, Delivery: 2.0, Tax: 0.85, Total: 19.84},
			Payment:   domain.Payment{Method: "gpay"},
			Delivery:  domain.Delivery{FullName: "Alice Johnson", Phone: "+91 98765 43210", Address: "123 Main St", City: "Mumbai", Pincode: "400001"},
		},
		{
			ID:        fmt.Sprintf("ORD-%d", at(2).UnixMilli()),
			CreatedAt: at(2),
			Status:    domain.OrderShipped,
			Items:     []domain.OrderItem{{Title: "Deep Work", Price: 14.50, Qty: 2}},
			Totals:    domain.OrderTotals{Subtotal: 29.00, Delivery: 2.0, Tax: 1.45, Total: 32.45},
			Payment:   domain.Payment{Method: "upi"},
			Delivery:  domain.Delivery{FullName: "Bob Smith", Phone: "+91 87654 32109", Address: "456 Oak Ave", City: "Delhi", Pincode: "110001"},
			Shipment:  domain.Shipment{Carrier: "DTDC", TrackingNumber: "DT123456789", ShippedAt: ptr(at(1))},
		},
		{
			ID:        fmt.Sprintf("ORD-%d", at(3).UnixMilli()),
			CreatedAt: at(3),
			Status:    domain.OrderDelivered,
			Items:     []domain.OrderItem{{Title: "The Alchemist", Price: 12.99, Qty: 1}},
			Totals:    domain.OrderTotals{Subtotal: 12.99, Delivery: 2.0, Tax: 0.65, Total: 15.64},
			Payment:   domain.Payment{Method: "card"},
			Delivery:  domain.Delivery{FullName: "Charlie Brown", Phone: "+91 76543 21098", Address: "789 Pine Rd", City: "Bangalore", Pincode: "560001"},
			Shipment:  domain.Shipment{Carrier: "BlueDart", TrackingNumber: "BD987654321", ShippedAt: ptr(at(2)), DeliveredAt: ptr(at(1))},
		},
	}
}
