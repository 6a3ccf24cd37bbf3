package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

var sessionColumns = []string{
	"company_id", "onboarding_id", "current_phase", "status",
	"checkpoints", "version", "created_at", "updated_at",
}

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "onboarding_sessions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewPostgresStoreDB(context.Background(), bun.NewDB(sqlDB, pgdialect.New()))
	if err != nil {
		t.Fatalf("NewPostgresStoreDB() error = %v", err)
	}
	return store, mock
}

func TestPostgresStoreCreateIfAbsentInserts(t *testing.T) {
	t.Parallel()

	store, mock := newMockPostgresStore(t)
	mock.ExpectExec(`INSERT INTO "onboarding_sessions" AS "os" \(.+\) VALUES \(12, .+\) ON CONFLICT \(company_id\) DO NOTHING$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	st, created, err := store.CreateIfAbsent(context.Background(), 12, time.Now())
	if err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}
	if !created || st.CompanyID != 12 || st.Version != 1 {
		t.Fatalf("CreateIfAbsent() = %+v created %v", st, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStoreCreateIfAbsentReturnsExisting(t *testing.T) {
	t.Parallel()

	store, mock := newMockPostgresStore(t)
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO "onboarding_sessions" AS "os" .+ ON CONFLICT \(company_id\) DO NOTHING$`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM "onboarding_sessions" AS "os" WHERE \(company_id = 12\)`).
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			12, "existing-id", "clients", "in_progress",
			[]byte(`{}`), 4, created, created,
		))

	st, isNew, err := store.CreateIfAbsent(context.Background(), 12, time.Now())
	if err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}
	if isNew {
		t.Fatal("CreateIfAbsent() reported a new session for an existing row")
	}
	if st.OnboardingID != "existing-id" || st.CurrentPhase != PhaseClients || st.Version != 4 {
		t.Fatalf("loaded session = %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStoreSaveUpsertsWithVersionGuard(t *testing.T) {
	t.Parallel()

	store, mock := newMockPostgresStore(t)
	st := NewSession(12, time.Now())
	st.Version = 3

	mock.ExpectExec(`INSERT INTO "onboarding_sessions" AS "os" \(.+\) VALUES \(12, .+, 4, .+\) ` +
		`ON CONFLICT \(company_id\) DO UPDATE SET current_phase = EXCLUDED\.current_phase, status = EXCLUDED\.status, ` +
		`checkpoints = EXCLUDED\.checkpoints, version = EXCLUDED\.version, updated_at = EXCLUDED\.updated_at ` +
		`WHERE \(os\.version = 3\)$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Save(context.Background(), st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if st.Version != 4 {
		t.Fatalf("Version = %d, want 4", st.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStoreSaveStaleVersion(t *testing.T) {
	t.Parallel()

	store, mock := newMockPostgresStore(t)
	st := NewSession(12, time.Now())

	mock.ExpectExec(`ON CONFLICT \(company_id\) DO UPDATE .+ WHERE \(os\.version = 1\)$`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Save(context.Background(), st)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("Save() error = %v, want ErrVersionConflict", err)
	}
	if st.Version != 1 {
		t.Fatalf("rejected Save changed Version to %d", st.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store, mock := newMockPostgresStore(t)
	mock.ExpectQuery(`SELECT .+ FROM "onboarding_sessions" AS "os" WHERE \(company_id = 5\)`).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := store.Load(context.Background(), 5)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Load() error = %v, want ErrSessionNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestPostgresStoreLoadQueryError(t *testing.T) {
	t.Parallel()

	store, mock := newMockPostgresStore(t)
	mock.ExpectQuery(`FROM "onboarding_sessions"`).WillReturnError(errors.New("connection reset"))

	_, err := store.Load(context.Background(), 5)
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Load() error = %v, want a wrapped driver error", err)
	}
	if got, want := err.Error(), "failed to get onboarding session: connection reset"; got != want {
		t.Fatalf("Load() error = %q, want %q", got, want)
	}
}
