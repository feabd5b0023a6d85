package catalog

import (
	"fmt"
	"sort"
	"strings"

	"shelfsync/internal/domain"
)

// DefaultPageSize is the number of books per page when a query names none.
const DefaultPageSize = 24

// Sort orders understood by Apply. Anything else keeps merge order.
const (
	SortDefault   = ""
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortTitle     = "title"
)

// Price brackets for the price facet.
const (
	PriceUnder500   = "under-500"
	Price500To1000  = "500-1000"
	Price1000To2000 = "1000-2000"
	PriceOver2000   = "over-2000"
)

// Query describes one view of the catalog. Empty facets impose no constraint.
type Query struct {
	Search        string
	Sort          string
	Categories    []string
	Conditions    []string
	PriceBrackets []string
	Page          int
	PageSize      int
}

// Page is one slice of the filtered, sorted catalog.
type Page struct {
	Items      []domain.Book `json:"items"`
	Number     int           `json:"page"`
	Size       int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	Info       string        `json:"info"`
}

// Apply runs the whole pipeline over books: search, filter, sort, paginate.
// books is never modified. Page numbers are not validated: a page past the
// end yields no items.
func Apply(books []domain.Book, q Query) Page {
	filtered := Filter(Search(books, q.Search), q)
	Sort(filtered, q.Sort)
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return Paginate(filtered, q.Page, size)
}

// Search keeps books whose title, author or isbn contains term, ignoring
// case. An empty term returns a copy of books.
func Search(books []domain.Book, term string) []domain.Book {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if term == "" ||
			strings.Contains(strings.ToLower(b.Title), term) ||
			strings.Contains(strings.ToLower(b.Author), term) ||
			strings.Contains(strings.ToLower(b.ISBN), term) {
			out = append(out, b)
		}
	}
	return out
}

// Filter intersects the category, condition and price facets of q.
func Filter(books []domain.Book, q Query) []domain.Book {
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if !matchesAny(b.Category, q.Categories) || !matchesAny(b.Condition, q.Conditions) {
			continue
		}
		if len(q.PriceBrackets) > 0 && !inAnyBracket(b.Price, q.PriceBrackets) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesAny(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if strings.EqualFold(strings.TrimSpace(w), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}

func inAnyBracket(price float64, brackets []string) bool {
	for _, br := range brackets {
		if InBracket(price, br) {
			return true
		}
	}
	return false
}

// InBracket reports whether price falls in the named bracket. Lower bounds
// are inclusive. Unknown brackets match nothing.
func InBracket(price float64, bracket string) bool {
	switch strings.ToLower(strings.TrimSpace(bracket)) {
	case PriceUnder500:
		return price < 500
	case Price500To1000:
		return price >= 500 && price < 1000
	case Price1000To2000:
		return price >= 1000 && price < 2000
	case PriceOver2000:
		return price >= 2000
	default:
		return false
	}
}

// Sort orders books in place. Ties keep their merge order.
func Sort(books []domain.Book, order string) {
	switch order {
	case SortPriceLow:
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price < books[j].Price })
	case SortPriceHigh:
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price > books[j].Price })
	case SortTitle:
		sort.SliceStable(books, func(i, j int) bool { return strings.Compare(books[i].Title, books[j].Title) < 0 })
	}
}

// Paginate slices page (1-based) of the given size out of books.
func Paginate(books []domain.Book, page, size int) Page {
	total := len(books)
	start := clamp((page-1)*size, 0, total)
	end := clamp(page*size, 0, total)
	if end < start {
		end = start
	}
	items := make([]domain.Book, end-start)
	copy(items, books[start:end])
	return Page{
		Items:      items,
		Number:     page,
		Size:       size,
		TotalPages: (total + size - 1) / size,
		Total:      total,
		Info:       PageInfo(page, size, total),
	}
}

// PageInfo renders the "Showing A-B of N books" line.
func PageInfo(page, size, total int) string {
	first := (page-1)*size + 1
	last := page * size
	if total < last {
		last = total
	}
	return fmt.Sprintf("Showing %d-%d of %d books", first, last, total)
}

// Facets lists the distinct categories and conditions present, in first-seen
// order.
func Facets(books []domain.Book) (categories, conditions []string) {
	seenCat := map[string]bool{}
	seenCond := map[string]bool{}
	for _, b := range books {
		if c := strings.TrimSpace(b.Category); c != "" && !seenCat[strings.ToLower(c)] {
			seenCat[strings.ToLower(c)] = true
			categories = append(categories, c)
		}
		if c := strings.TrimSpace(b.Condition); c != "" && !seenCond[strings.ToLower(c)] {
			seenCond[strings.ToLower(c)] = true
			conditions = append(conditions, c)
		}
	}
	return categories, conditions
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
