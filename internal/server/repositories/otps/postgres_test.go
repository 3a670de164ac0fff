package otps

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gowear/gowear/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(10 * time.Minute)
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+otps\s*\(email,\s*code_hash,\s*expires_at\).*ON\s+CONFLICT\s*\(email\)\s+DO\s+UPDATE`).
		WithArgs("alice@example.com", []byte("hash"), expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), "alice@example.com", []byte("hash"), expires); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

func TestFind_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(5 * time.Minute)
	rows := sqlmock.NewRows([]string{"email", "code_hash", "expires_at"}).
		AddRow("alice@example.com", []byte("hash"), expires)
	mock.ExpectQuery(`(?s)^\s*SELECT\s+email,\s*code_hash,\s*expires_at\s+FROM\s+otps`).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.Find(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.Email != "alice@example.com" || got.Expired(time.Now()) {
		t.Fatalf("unexpected otp: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+email,\s*code_hash,\s*expires_at\s+FROM\s+otps`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+otps\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("alice@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+otps\s+WHERE\s+expires_at\s*<=\s*\$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted, got %d", n)
	}
}
