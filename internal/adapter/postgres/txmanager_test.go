package postgres_test

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/anime-ingest/internal/adapter/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunInTx_Commit(t *testing.T) {
	mock := newMock(t)
	tm := postgres.NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tags`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if !postgres.InTx(ctx) {
			t.Error("ctx should carry the transaction")
		}
		_, err := postgres.QuerierFromCtx(ctx, mock).Exec(ctx, `INSERT INTO tags (name) VALUES ($1)`, "Action")
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	mock := newMock(t)
	tm := postgres.NewTxManager(mock)
	sentinel := errors.New("apply failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	expectationsMet(t, mock)
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	mock := newMock(t)
	tm := postgres.NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if r := recover(); r != "test panic" {
			t.Fatalf("expected re-raised panic %q, got %v", "test panic", r)
		}
		expectationsMet(t, mock)
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		panic("test panic")
	})
}

func TestRunInTx_BeginError(t *testing.T) {
	mock := newMock(t)
	tm := postgres.NewTxManager(mock)
	boom := errors.New("connection refused")

	mock.ExpectBegin().WillReturnError(boom)

	called := false
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected begin error, got: %v", err)
	}
	if called {
		t.Error("fn must not run when Begin fails")
	}
	expectationsMet(t, mock)
}

func TestQuerierFromCtx_FallsBack(t *testing.T) {
	mock := newMock(t)

	if postgres.InTx(context.Background()) {
		t.Error("background ctx should not carry a transaction")
	}
	if q := postgres.QuerierFromCtx(context.Background(), mock); q != mock {
		t.Error("QuerierFromCtx should return the fallback outside a transaction")
	}
}
