package auth

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"shelfsync/internal/domain"
	"shelfsync/internal/migrate"
	accountrepo "shelfsync/internal/repository/account"
	tokenrepo "shelfsync/internal/repository/token"
)

func TestSignUpAndSignIn_Integration(t *testing.T) {
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

	svc := New(accountrepo.NewPostgres(pool, nil), tokenrepo.NewPostgres(pool, nil), nil)
	acc, err := svc.SignUp(ctx, signup("integration@example.com", "seller"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, sess, err := svc.SignIn(ctx, "integration@example.com", "secret1", domain.RoleSeller)
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	got, err := svc.User(ctx, sess.Token)
	if err != nil || got.ID != acc.ID {
		t.Fatalf("User = %+v, %v", got, err)
	}
}
