package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// rawDocument keeps every field of each record so a correction pass writes
// back what it did not touch.
type rawDocument struct {
	Books []map[string]any `json:"books"`
}

func readDocument(r io.Reader) (rawDocument, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// CorrectOptions tune the correction pass. A PriceRate of 0 leaves prices
// alone.
type CorrectOptions struct {
	PriceRate float64
}

// Correct upper-cases category and condition on every record and converts
// prices by PriceRate, rounded to cents. It returns the record count.
func Correct(r io.Reader, w io.Writer, opts CorrectOptions) (int, error) {
	doc, err := readDocument(r)
	if err != nil {
		return 0, err
	}
	for _, book := range doc.Books {
		for _, field := range []string{"category", "condition"} {
			if s, ok := book[field].(string); ok && s != "" {
				book[field] = strings.ToUpper(s)
			}
		}
		if opts.PriceRate != 0 {
			if p, ok := book["price"].(float64); ok {
				book["price"] = math.Round(p*opts.PriceRate*100) / 100
			}
		}
	}
	if err := writeJSON(w, doc); err != nil {
		return 0, err
	}
	return len(doc.Books), nil
}

// Issue is one malformed record.
type Issue struct {
	Index   int
	Title   string
	Missing []string
}

// Report is the outcome of Validate.
type Report struct {
	Total  int
	Issues []Issue
}

func (r Report) OK() bool { return len(r.Issues) == 0 }

// Validate flags records with an empty or missing title, author or price.
// A zero price counts as missing.
func Validate(r io.Reader) (Report, error) {
	doc, err := readDocument(r)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Total: len(doc.Books)}
	for i, book := range doc.Books {
		var missing []string
		if !nonEmptyString(book["title"]) {
			missing = append(missing, "title")
		}
		if !nonEmptyString(book["author"]) {
			missing = append(missing, "author")
		}
		if p, ok := book["price"].(float64); !ok || p == 0 {
			missing = append(missing, "price")
		}
		if len(missing) > 0 {
			title, _ := book["title"].(string)
			rep.Issues = append(rep.Issues, Issue{Index: i, Title: title, Missing: missing})
		}
	}
	return rep, nil
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
