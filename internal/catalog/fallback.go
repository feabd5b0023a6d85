package catalog

import "shelfsync/internal/domain"

// Fallback is the small catalog shown when the static document cannot be
// loaded. It returns a fresh slice on every call.
func Fallback() []domain.Book {
	return []domain.Book{
		{ISBN: "9780062316097", Title: "Sapiens", Author: "Yuval Noah Harari", Price: 499, Category: "HISTORY", Condition: "NEW", Stock: domain.StockLabel("In Stock"), Gradient: "sapiens"},
		{ISBN: "9780735211292", Title: "Atomic Habits", Author: "James Clear", Price: 399, Category: "SELF-HELP", Condition: "NEW", Stock: domain.StockLabel("In Stock"), Gradient: "atomic"},
		{ISBN: "9781455586691", Title: "Deep Work", Author: "Cal Newport", Price: 349, Category: "SELF-HELP", Condition: "LIKE NEW", Stock: domain.StockLabel("Limited Stock"), Gradient: "deepwork"},
		{ISBN: "9780062315007", Title: "The Alchemist", Author: "Paulo Coelho", Price: 299, Category: "FICTION", Condition: "GOOD", Stock: domain.StockLabel("In Stock"), Gradient: "alchemist"},
		{ISBN: "9780441172719", Title: "Dune", Author: "Frank Herbert", Price: 599, Category: "FICTION", Condition: "NEW", Stock: domain.StockLabel("Low Stock"), Gradient: "dune"},
		{ISBN: "9780451524935", Title: "1984", Author: "George Orwell", Price: 250, Category: "FICTION", Condition: "GOOD", Stock: domain.StockLabel("In Stock"), Gradient: "orwell"},
		{ISBN: "9780374533557", Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Price: 650, Category: "PSYCHOLOGY", Condition: "LIKE NEW", Stock: domain.StockLabel("In Stock"), Gradient: "thinking"},
		{ISBN: "9780857197689", Title: "The Psychology of Money", Author: "Morgan Housel", Price: 320, Category: "FINANCE", Condition: "NEW", Stock: domain.StockLabel("In Stock"), Gradient: "money"},
	}
}
