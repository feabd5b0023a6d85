// Package importer loads seller listings from CSV and maintains the static
// catalog document (correction, validation and generation passes).
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"shelfsync/internal/domain"
	listingrepo "shelfsync/internal/repository/listing"
)

type ListingWriter interface {
	Upsert(ctx context.Context, l listingrepo.Listing) (*listingrepo.Listing, error)
}

// CSVImporter reads a listing export (title, author, price, category,
// condition, stock, isbn, cover columns) and upserts each row for one seller.
type CSVImporter struct {
	reader   *csv.Reader
	repo     ListingWriter
	sellerID string
	logger   *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ListingWriter, sellerID string, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{reader: csvr, repo: repo, sellerID: sellerID, logger: logger}
}

// Result counts imported and skipped rows.
type Result struct {
	Imported int
	Skipped  int
}

// Run imports every row. Rows missing a title or author, or with an
// unreadable price, are skipped and logged; repository errors abort.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["title"]; !ok {
		return res, errors.New("read headers: title column missing")
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		book, err := parseRow(record, index)
		if err != nil {
			i.logger.Warn("skip row", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}
		book.SellerID = i.sellerID
		if _, err := i.repo.Upsert(ctx, listingrepo.Listing{Book: book}); err != nil {
			return res, fmt.Errorf("upsert %q: %w", book.Title, err)
		}
		res.Imported++
	}
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Book, error) {
	b := domain.Book{
		Title:     pick(record, index, "title"),
		Author:    pick(record, index, "author"),
		Category:  pick(record, index, "category"),
		Condition: pick(record, index, "condition"),
		Stock:     domain.ParseStock(pick(record, index, "stock")),
		ISBN:      pick(record, index, "isbn"),
		Cover:     pick(record, index, "cover"),
	}
	if b.Title == "" || b.Author == "" {
		return b, errors.New("title and author required")
	}
	if raw := pick(record, index, "price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 {
			return b, fmt.Errorf("invalid price %q", raw)
		}
		b.Price = p
	}
	return b, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
