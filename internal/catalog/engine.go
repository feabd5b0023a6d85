// Package catalog assembles the book list from the static catalog and the
// seller listings, and derives searched, filtered, sorted and paginated views
// of it.
package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shelfsync/internal/domain"
)

// State of an Engine's one-time load.
type State int32

const (
	Idle State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Engine owns the merged catalog. It loads once; afterwards the book list is
// read-only and views are computed from it on demand.
type Engine struct {
	static Source
	seller Source
	logger *zap.Logger

	once  sync.Once
	state atomic.Int32
	done  chan struct{}
	books []domain.Book
}

// NewEngine builds an engine over the two sources. seller may be nil.
func NewEngine(static, seller Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{static: static, seller: seller, logger: logger, done: make(chan struct{})}
}

// Load fetches both sources concurrently and merges them static first. A
// failed static source is replaced by Fallback; a failed seller source
// contributes nothing. Calls after the first wait for it and return.
func (e *Engine) Load(ctx context.Context) {
	e.once.Do(func() {
		e.state.Store(int32(Loading))
		defer func() {
			e.state.Store(int32(Loaded))
			close(e.done)
		}()

		var static, seller []domain.Book
		var g errgroup.Group
		g.Go(func() error {
			static = e.loadStatic(ctx)
			return nil
		})
		g.Go(func() error {
			seller = e.loadSeller(ctx)
			return nil
		})
		_ = g.Wait()

		merged := make([]domain.Book, 0, len(static)+len(seller))
		merged = append(merged, static...)
		merged = append(merged, seller...)
		e.books = merged
		e.logger.Info("catalog loaded",
			zap.Int("static", len(static)),
			zap.Int("seller", len(seller)),
			zap.Int("total", len(merged)))
	})
	<-e.done
}

func (e *Engine) loadStatic(ctx context.Context) []domain.Book {
	if e.static == nil {
		return Fallback()
	}
	books, err := e.static.Books(ctx)
	if err != nil {
		e.logger.Warn("static catalog unavailable, using fallback list", zap.Error(err))
		return Fallback()
	}
	return books
}

func (e *Engine) loadSeller(ctx context.Context) []domain.Book {
	if e.seller == nil {
		return nil
	}
	books, err := e.seller.Books(ctx)
	if err != nil {
		e.logger.Warn("seller listings unavailable, continuing without them", zap.Error(err))
		return nil
	}
	return books
}

// Wait blocks until the engine is loaded or ctx ends.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) State() State { return State(e.state.Load()) }

// Books returns a copy of the merged catalog, empty before the load finishes.
func (e *Engine) Books() []domain.Book {
	if e.State() != Loaded {
		return []domain.Book{}
	}
	out := make([]domain.Book, len(e.books))
	copy(out, e.books)
	return out
}

// View runs q against the loaded catalog.
func (e *Engine) View(q Query) Page {
	if e.State() != Loaded {
		return Apply(nil, q)
	}
	return Apply(e.books, q)
}

// Find returns the first book with the given isbn.
func (e *Engine) Find(isbn string) (domain.Book, bool) {
	if e.State() != Loaded {
		return domain.Book{}, false
	}
	for _, b := range e.books {
		if b.ISBN == isbn {
			return b, true
		}
	}
	return domain.Book{}, false
}
