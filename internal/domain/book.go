package domain

import (
	"net/url"
	"strings"
)

// PlaceholderCover is used for books that carry no cover URL.
const PlaceholderCover = "https://via.placeholder.com/400x600?text=Book"

// Book is a read-only catalog record. ISBN is unique within a source only.
type Book struct {
	ISBN      string  `json:"isbn"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     float64 `json:"price"`
	Category  string  `json:"category,omitempty"`
	Condition string  `json:"condition,omitempty"`
	Stock     Stock   `json:"stock"`
	Cover     string  `json:"cover,omitempty"`
	Gradient  string  `json:"gradient,omitempty"`
	SellerID  string  `json:"sellerId,omitempty"`
}

// CoverURL returns the cover or a generated placeholder carrying the title.
func (b Book) CoverURL() string {
	if strings.TrimSpace(b.Cover) != "" {
		return b.Cover
	}
	if b.Title == "" {
		return PlaceholderCover
	}
	return "https://via.placeholder.com/400x600?text=" + url.QueryEscape(b.Title)
}
