package domain

import "time"

// CartLine is one row of the persisted cart. Identity is the book title; the
// embedded Book is a snapshot taken when the title was first added.
type CartLine struct {
	Book
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// Qty treats a missing quantity as 1.
func (l CartLine) Qty() int {
	if l.Quantity <= 0 {
		return 1
	}
	return l.Quantity
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Qty())
}
