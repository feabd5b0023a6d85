package account

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"shelfsync/internal/domain"
	"shelfsync/internal/migrate"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, domain.Account{Email: "Reader@Example.com", PasswordHash: "hash", FirstName: "Ada", Role: domain.RoleSeller})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Email != "reader@example.com" || created.Role != domain.RoleSeller {
		t.Fatalf("unexpected account %+v", created)
	}

	byEmail, err := repo.GetByEmail(ctx, "READER@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, byEmail.ID)
	}

	if _, err := repo.Create(ctx, domain.Account{Email: "reader@example.com", PasswordHash: "x", Role: domain.RoleCustomer}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if _, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}

func TestMemory_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	if _, err := repo.Create(ctx, domain.Account{Email: "a@b.c", Role: domain.RoleCustomer}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, domain.Account{Email: " A@B.C ", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "missing@b.c"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE books, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
