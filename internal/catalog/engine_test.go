package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfsync/internal/domain"
)

func fixed(books ...domain.Book) Source {
	return SourceFunc(func(context.Context) ([]domain.Book, error) { return books, nil })
}

func failing() Source {
	return SourceFunc(func(context.Context) ([]domain.Book, error) { return nil, errors.New("boom") })
}

func TestLoadMergesStaticBeforeSeller(t *testing.T) {
	// The static source finishes last; merge order must not depend on that.
	slowStatic := SourceFunc(func(ctx context.Context) ([]domain.Book, error) {
		time.Sleep(20 * time.Millisecond)
		return []domain.Book{{Title: "Static"}}, nil
	})
	e := NewEngine(slowStatic, fixed(domain.Book{Title: "Seller"}), nil)
	assert.Equal(t, Idle, e.State())

	e.Load(context.Background())
	assert.Equal(t, Loaded, e.State())
	assert.Equal(t, []string{"Static", "Seller"}, titles(e.Books()))
}

func TestLoadFallsBackWhenStaticFails(t *testing.T) {
	e := NewEngine(failing(), fixed(domain.Book{Title: "Seller"}), nil)
	e.Load(context.Background())

	books := e.Books()
	fb := Fallback()
	require.Len(t, books, len(fb)+1)
	assert.Equal(t, fb[0].Title, books[0].Title)
	assert.Equal(t, "Seller", books[len(books)-1].Title)

	p := e.View(Query{Page: 1})
	assert.NotEmpty(t, p.Items)
}

func TestLoadToleratesSellerFailure(t *testing.T) {
	e := NewEngine(fixed(domain.Book{Title: "Static"}), failing(), nil)
	e.Load(context.Background())
	assert.Equal(t, []string{"Static"}, titles(e.Books()))
}

func TestLoadRunsOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	src := SourceFunc(func(context.Context) ([]domain.Book, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return []domain.Book{{Title: "A"}}, nil
	})
	e := NewEngine(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Load(context.Background())
		}()
	}
	wg.Wait()
	e.Load(context.Background())
	assert.Equal(t, 1, calls)
	assert.Len(t, e.Books(), 1)
}

func TestWaitHonoursContext(t *testing.T) {
	e := NewEngine(fixed(), nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Wait(ctx), context.DeadlineExceeded)
	assert.Empty(t, e.Books())

	go e.Load(context.Background())
	require.NoError(t, e.Wait(context.Background()))
	assert.Equal(t, Loaded, e.State())
}

func TestSellerDefaults(t *testing.T) {
	src := NewSellerSource(listerFunc(func(context.Context) ([]domain.Book, error) {
		return []domain.Book{
			{Title: "Bare", Author: "X", Price: 10},
			{Title: "Full", Author: "Y", ISBN: "isbn-1", Cover: "c.jpg", Stock: domain.StockCount(3)},
		}, nil
	}))
	books, err := src.Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, domain.StockIn, books[0].Stock.Level())
	assert.NotEmpty(t, books[0].ISBN)
	assert.Equal(t, domain.PlaceholderCover, books[0].Cover)

	assert.Equal(t, "isbn-1", books[1].ISBN)
	assert.Equal(t, "c.jpg", books[1].Cover)
	assert.Equal(t, domain.StockLow, books[1].Stock.Level())
}

type listerFunc func(context.Context) ([]domain.Book, error)

func (f listerFunc) ListAll(ctx context.Context) ([]domain.Book, error) { return f(ctx) }

func TestStaticSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	doc := `{"books":[{"isbn":"1","title":"Dune","author":"Frank Herbert","price":599,"stock":"In Stock"},{"isbn":"2","title":"Emma","author":"Jane Austen","price":120,"stock":4}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	books, err := NewStaticSource(path).Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, domain.StockIn, books[0].Stock.Level())
	assert.Equal(t, domain.StockLow, books[1].Stock.Level())
}

func TestStaticSourceFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"books":[{"title":"Dune","author":"Frank Herbert","price":5}]}`))
	}))
	defer srv.Close()

	books, err := NewStaticSource(srv.URL + "/books.json").Books(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(books))

	_, err = NewStaticSource(srv.URL + "/missing.json").Books(context.Background())
	assert.Error(t, err)
}

func TestStaticSourceErrors(t *testing.T) {
	_, err := NewStaticSource(filepath.Join(t.TempDir(), "nope.json")).Books(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"books":[]}`), 0o600))
	_, err = NewStaticSource(path).Books(context.Background())
	assert.ErrorIs(t, err, errNoBooks)
}
