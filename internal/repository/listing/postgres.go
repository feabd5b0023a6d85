package listing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("listing_repo")}
}

const listingColumns = `id::text, seller_id::text, isbn, title, author, price::float8, category, condition, stock, cover, sales_count, created_at`

func (r *postgresRepo) Create(ctx context.Context, l Listing) (*Listing, error) {
	const q = `
INSERT INTO books (seller_id, isbn, title, author, price, category, condition, stock, cover)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + listingColumns
	out, err := scanListing(r.pool.QueryRow(ctx, q, insertArgs(l)...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("create listing", zap.String("seller_id", l.Book.SellerID), zap.String("title", l.Book.Title), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listing created", zap.String("id", out.ID), zap.String("title", out.Book.Title))
	return out, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, l Listing) (*Listing, error) {
	const q = `
INSERT INTO books (seller_id, isbn, title, author, price, category, condition, stock, cover)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (seller_id, title) DO UPDATE SET
    isbn = EXCLUDED.isbn,
    author = EXCLUDED.author,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    condition = EXCLUDED.condition,
    stock = EXCLUDED.stock,
    cover = EXCLUDED.cover
RETURNING ` + listingColumns
	out, err := scanListing(r.pool.QueryRow(ctx, q, insertArgs(l)...))
	if err != nil {
		r.logger.Error("upsert listing", zap.String("seller_id", l.Book.SellerID), zap.String("title", l.Book.Title), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+listingColumns+` FROM books ORDER BY created_at, id`)
	if err != nil {
		r.logger.Error("list listings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l.Book)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list listings rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listings loaded", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) ListBySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+listingColumns+` FROM books WHERE seller_id::text = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		r.logger.Error("list seller listings", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM books`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func insertArgs(l Listing) []any {
	b := l.Book
	return []any{b.SellerID, b.ISBN, b.Title, b.Author, b.Price, b.Category, b.Condition, b.Stock.String(), b.Cover}
}

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	var stock string
	b := &l.Book
	if err := row.Scan(&l.ID, &b.SellerID, &b.ISBN, &b.Title, &b.Author, &b.Price, &b.Category, &b.Condition, &stock, &b.Cover, &l.SalesCount, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	b.Stock = domain.ParseStock(stock)
	return &l, nil
}
