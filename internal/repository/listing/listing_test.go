package listing

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"shelfsync/internal/domain"
	"shelfsync/internal/migrate"
)

func TestPostgres_CreateUpsertList(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE books, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	var sellerID string
	if err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash, role) VALUES ('s@x.io', 'h', 'seller') RETURNING id::text`).Scan(&sellerID); err != nil {
		t.Fatalf("insert seller: %v", err)
	}

	exerciseRepo(t, NewPostgres(pool, nil), sellerID)
}

func TestMemory_CreateUpsertList(t *testing.T) {
	exerciseRepo(t, NewMemory(), "seller-1")
}

func exerciseRepo(t *testing.T, repo Repository, sellerID string) {
	t.Helper()
	ctx := context.Background()

	created, err := repo.Create(ctx, Listing{Book: domain.Book{SellerID: sellerID, Title: "Dune", Author: "Frank Herbert", Price: 12.5, Stock: domain.StockCount(4)}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id")
	}
	if _, err := repo.Create(ctx, Listing{Book: domain.Book{SellerID: sellerID, Title: "Dune", Author: "F"}}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	updated, err := repo.Upsert(ctx, Listing{Book: domain.Book{SellerID: sellerID, Title: "Dune", Author: "Frank Herbert", Price: 15}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if updated.ID != created.ID || updated.Book.Price != 15 {
		t.Fatalf("unexpected upsert result %+v", updated)
	}
	if _, err := repo.Upsert(ctx, Listing{Book: domain.Book{SellerID: sellerID, Title: "Emma", Author: "Jane Austen", Price: 3}}); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Dune" || all[1].Title != "Emma" {
		t.Fatalf("unexpected listings %+v", all)
	}

	mine, err := repo.ListBySeller(ctx, sellerID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListBySeller = %d, %v", len(mine), err)
	}
	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}
