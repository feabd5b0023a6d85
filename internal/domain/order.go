package domain

import "time"

// Order statuses used by the local ledger.
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

type Order struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    string      `json:"status"`
	Items     []OrderItem `json:"items"`
	Totals    OrderTotals `json:"totals"`
	Payment   Payment     `json:"payment"`
	Delivery  Delivery    `json:"delivery"`
	Shipment  Shipment    `json:"shipment"`
}

type OrderItem struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Delivery float64 `json:"delivery"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type Payment struct {
	Method string `json:"method"`
}

type Delivery struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address"`
	City     string `json:"city,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

type Shipment struct {
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"trackingNumber"`
	ShippedAt      *time.Time `json:"shippedAt"`
	DeliveredAt    *time.Time `json:"deliveredAt"`
	Notes          string     `json:"notes"`
}
