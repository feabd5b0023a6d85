package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StockLevel is the normalized availability of a book.
type StockLevel int

const (
	StockUnknown StockLevel = iota
	StockIn
	StockLimited
	StockLow
	StockOut
)

func (l StockLevel) String() string {
	switch l {
	case StockIn:
		return "In Stock"
	case StockLimited:
		return "Limited Stock"
	case StockLow:
		return "Low Stock"
	case StockOut:
		return "Out of Stock"
	default:
		return ""
	}
}

// Stock holds either a label ("In Stock", "Low Stock", ...) or a numeric count,
// whichever form the source used.
type Stock struct {
	label   string
	count   int
	numeric bool
}

func StockLabel(label string) Stock { return Stock{label: label} }

func StockCount(n int) Stock { return Stock{count: n, numeric: true} }

func (s Stock) IsZero() bool { return !s.numeric && s.label == "" }

// Count reports the numeric count and whether the stock was numeric.
func (s Stock) Count() (int, bool) { return s.count, s.numeric }

// Level maps both representations onto a StockLevel.
func (s Stock) Level() StockLevel {
	if s.numeric {
		switch {
		case s.count <= 0:
			return StockOut
		case s.count <= 5:
			return StockLow
		case s.count <= 20:
			return StockLimited
		default:
			return StockIn
		}
	}
	switch strings.ToLower(strings.TrimSpace(s.label)) {
	case "in stock":
		return StockIn
	case "limited stock", "limited":
		return StockLimited
	case "low stock", "low":
		return StockLow
	case "out of stock", "sold out":
		return StockOut
	default:
		return StockUnknown
	}
}

// Label is the display string. Unrecognized labels are shown verbatim.
func (s Stock) Label() string {
	if lvl := s.Level(); lvl != StockUnknown {
		if s.numeric && lvl != StockOut {
			return fmt.Sprintf("%s (%d)", lvl, s.count)
		}
		return lvl.String()
	}
	return s.label
}

func (s Stock) MarshalJSON() ([]byte, error) {
	switch {
	case s.numeric:
		return json.Marshal(s.count)
	case s.label == "":
		return []byte("null"), nil
	default:
		return json.Marshal(s.label)
	}
}

func (s *Stock) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Stock{}
		return nil
	}
	if data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*s = StockLabel(label)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("stock: expected label or number: %w", err)
	}
	*s = StockCount(int(n))
	return nil
}

// ParseStock reads the stored text form: an integer is a count, anything else
// a label.
func ParseStock(text string) Stock {
	text = strings.TrimSpace(text)
	if text == "" {
		return Stock{}
	}
	if n, err := strconv.Atoi(text); err == nil {
		return StockCount(n)
	}
	return StockLabel(text)
}

// String is the stored text form, the inverse of ParseStock.
func (s Stock) String() string {
	if s.numeric {
		return strconv.Itoa(s.count)
	}
	return s.label
}
