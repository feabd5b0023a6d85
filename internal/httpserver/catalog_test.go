package httpserver

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfsync/internal/catalog"
)

func pageTitles(p catalog.Page) []string {
	out := make([]string, 0, len(p.Items))
	for _, b := range p.Items {
		out = append(out, b.Title)
	}
	return out
}

func TestListBooks_Pipeline(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"merge order", "", []string{"Dune", "Emma", "Atomic Habits"}},
		{"search author", "?q=austen", []string{"Emma"}},
		{"sort price high", "?sort=price-high", []string{"Emma", "Atomic Habits", "Dune"}},
		{"sort title", "?sort=title", []string{"Atomic Habits", "Dune", "Emma"}},
		{"condition facet", "?condition=new", []string{"Dune", "Atomic Habits"}},
		{"comma separated facet", "?category=fiction,classics", []string{"Dune", "Emma"}},
		{"price bracket", "?price=under-500", []string{"Dune"}},
		{"second page", "?pageSize=2&page=2", []string{"Atomic Habits"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(http.MethodGet, "/api/books"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			page := decode[catalog.Page](t, rec)
			if diff := cmp.Diff(tc.want, pageTitles(page)); diff != "" {
				t.Fatalf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListBooks_PageInfo(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/api/books?pageSize=2&page=0", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[catalog.Page](t, rec)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "Showing 1-2 of 3 books", page.Info)
}

func TestGetBook(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/books/222", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Emma", got["title"])
	assert.Equal(t, "Low Stock", got["stockLevel"])
	assert.Equal(t, "Low Stock (3)", got["stockLabel"])
	assert.Equal(t, "https://via.placeholder.com/400x600?text=Emma", got["coverUrl"])

	rec = h.do(http.MethodGet, "/api/books/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFacets(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/api/facets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[facetsResponse](t, rec)
	assert.Equal(t, []string{"FICTION", "CLASSICS", "SELF-HELP"}, got.Categories)
	assert.Equal(t, []string{"NEW", "USED"}, got.Conditions)
	assert.Len(t, got.Prices, 4)
}
