package importer

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"shelfsync/internal/catalog"
	"shelfsync/internal/domain"
)

// BaseBook is a seed record for Generate.
type BaseBook struct {
	Title    string
	Author   string
	ISBN     string
	Category string
}

var (
	gradients  = []string{"gatsby", "orwell", "code", "patterns", "alchemist", "sapiens"}
	conditions = []string{"New", "Like New", "Used"}
	stocks     = []string{"In Stock", "Low Stock", "Limited Stock"}
)

const (
	minPrice = 8.99
	maxPrice = 89.99
)

// Generate builds count records by cycling through base. Every pass after the
// first appends " - Edition N" to the title. Price, condition, stock and
// gradient are drawn from rng.
func Generate(base []BaseBook, count int, rng *rand.Rand) catalog.Document {
	doc := catalog.Document{Books: make([]domain.Book, 0, max(count, 0))}
	if len(base) == 0 {
		return doc
	}
	for i := 0; i < count; i++ {
		b := base[i%len(base)]
		title := b.Title
		if i >= len(base) {
			title = fmt.Sprintf("%s - Edition %d", b.Title, i/len(base)+1)
		}
		price := minPrice + rng.Float64()*(maxPrice-minPrice)
		doc.Books = append(doc.Books, domain.Book{
			ISBN:      b.ISBN,
			Title:     title,
			Author:    b.Author,
			Price:     math.Round(price*100) / 100,
			Category:  b.Category,
			Condition: conditions[rng.IntN(len(conditions))],
			Stock:     domain.StockLabel(stocks[rng.IntN(len(stocks))]),
			Gradient:  gradients[rng.IntN(len(gradients))],
			Cover:     OpenLibraryCover(b.ISBN),
		})
	}
	return doc
}

// WriteGenerated encodes a generated document.
func WriteGenerated(w io.Writer, doc catalog.Document) error {
	return writeJSON(w, doc)
}

// OpenLibraryCover is the large cover image URL for an isbn.
func OpenLibraryCover(isbn string) string {
	return "https://covers.openlibrary.org/b/isbn/" + isbn + "-L.jpg"
}

// DefaultBase is the seed list used when no base file is given.
func DefaultBase() []BaseBook {
	return []BaseBook{
		{"The Great Gatsby", "F. Scott Fitzgerald", "9780743273565", "Fiction"},
		{"1984", "George Orwell", "9780451524935", "Fiction"},
		{"To Kill a Mockingbird", "Harper Lee", "9780061120084", "Fiction"},
		{"Pride and Prejudice", "Jane Austen", "9780141439518", "Fiction"},
		{"The Hobbit", "J.R.R. Tolkien", "9780547928227", "Fiction"},
		{"The Alchemist", "Paulo Coelho", "9780062315007", "Fiction"},
		{"Dune", "Frank Herbert", "9780441172719", "Fiction"},
		{"Atomic Habits", "James Clear", "9780735211292", "Business"},
		{"Zero to One", "Peter Thiel", "9780804139298", "Business"},
		{"Deep Work", "Cal Newport", "9781455586691", "Business"},
		{"Start with Why", "Simon Sinek", "9781591846444", "Business"},
		{"Thinking, Fast and Slow", "Daniel Kahneman", "9780374533557", "Non-Fiction"},
		{"Educated", "Tara Westover", "9780399590504", "Non-Fiction"},
		{"Outliers", "Malcolm Gladwell", "9780316017930", "Non-Fiction"},
		{"Clean Code", "Robert C. Martin", "9780132350884", "Science & Tech"},
		{"A Brief History of Time", "Stephen Hawking", "9780553380163", "Science & Tech"},
		{"Cosmos", "Carl Sagan", "9780345539434", "Science & Tech"},
		{"Designing Data-Intensive Applications", "Martin Kleppmann", "9781449373320", "Science & Tech"},
		{"Sapiens", "Yuval Noah Harari", "9780062316097", "History"},
		{"Guns, Germs, and Steel", "Jared Diamond", "9780393317558", "History"},
	}
}
