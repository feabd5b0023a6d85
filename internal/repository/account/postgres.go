package account

import (
	"context"
	"errors"
	"strings"

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

// NewPostgres returns a Repository backed by the users table.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("account_repo")}
}

const accountColumns = `id::text, email, password_hash, first_name, last_name, role, created_at`

func (r *postgresRepo) Create(ctx context.Context, a domain.Account) (*domain.Account, error) {
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + accountColumns
	return r.scan(r.pool.QueryRow(ctx, q,
		strings.ToLower(strings.TrimSpace(a.Email)),
		a.PasswordHash,
		a.FirstName,
		a.LastName,
		string(a.Role),
	))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scan(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM users WHERE id::text = $1 LIMIT 1`
	return r.scan(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		r.logger.Error("count users", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) scan(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var role string
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("scan account", zap.Error(err))
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}
