package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type sessionRow struct {
	bun.BaseModel `bun:"table:onboarding_sessions,alias:os"`

	CompanyID    int                            `bun:"company_id,pk"`
	OnboardingID string                         `bun:"onboarding_id,notnull"`
	CurrentPhase string                         `bun:"current_phase,notnull"`
	Status       string                         `bun:"status,notnull"`
	Checkpoints  map[CheckpointName]*Checkpoint `bun:"checkpoints,type:jsonb,notnull"`
	Version      int                            `bun:"version,notnull"`
	CreatedAt    time.Time                      `bun:"created_at,notnull"`
	UpdatedAt    time.Time                      `bun:"updated_at,notnull"`
}

func toRow(st *Session) *sessionRow {
	return &sessionRow{
		CompanyID:    st.CompanyID,
		OnboardingID: st.OnboardingID,
		CurrentPhase: string(st.CurrentPhase),
		Status:       string(st.Status),
		Checkpoints:  st.Checkpoints,
		Version:      st.Version,
		CreatedAt:    st.CreatedAt,
		UpdatedAt:    st.UpdatedAt,
	}
}

func (r *sessionRow) session() (*Session, error) {
	st := &Session{
		CompanyID:    r.CompanyID,
		OnboardingID: r.OnboardingID,
		CurrentPhase: Phase(r.CurrentPhase),
		Status:       Status(r.Status),
		Checkpoints:  r.Checkpoints,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	st.EnsureCheckpointsMap()
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid onboarding session loaded from store: %w", err)
	}
	return st, nil
}

// PostgresStore keeps one row per company in onboarding_sessions; the
// checkpoints map lives in a jsonb column.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	return NewPostgresStoreDB(ctx, bun.NewDB(sqldb, pgdialect.New()))
}

// NewPostgresStoreDB wraps an existing bun handle and makes sure the table
// exists.
func NewPostgresStoreDB(ctx context.Context, db *bun.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("nil bun db")
	}
	_, err := db.NewCreateTable().
		Model((*sessionRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("create onboarding_sessions table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context, companyID int) (*Session, error) {
	if companyID <= 0 {
		return nil, ErrInvalidCompany
	}

	row := new(sessionRow)
	err := s.db.NewSelect().
		Model(row).
		Where("company_id = ?", companyID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get onboarding session: %w", err)
	}
	return row.session()
}

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, companyID int, now time.Time) (*Session, bool, error) {
	if companyID <= 0 {
		return nil, false, ErrInvalidCompany
	}

	fresh := NewSession(companyID, now)
	res, err := s.db.NewInsert().
		Model(toRow(fresh)).
		On("CONFLICT (company_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create onboarding session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 1 {
		return fresh, true, nil
	}

	existing, err := s.Load(ctx, companyID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Save upserts the row. The update branch only fires while the stored
// version matches, so a stale writer affects zero rows.
func (s *PostgresStore) Save(ctx context.Context, st *Session) error {
	// the payload is unused; bun serializes the jsonb column itself
	if _, _, err := encodeNextVersion(st); err != nil {
		return err
	}
	expected := st.Version

	row := toRow(st)
	row.Version = expected + 1
	res, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (company_id) DO UPDATE").
		Set("current_phase = EXCLUDED.current_phase").
		Set("status = EXCLUDED.status").
		Set("checkpoints = EXCLUDED.checkpoints").
		Set("version = EXCLUDED.version").
		Set("updated_at = EXCLUDED.updated_at").
		Where("os.version = ?", expected).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save onboarding session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: company %d is no longer at version %d", ErrVersionConflict, st.CompanyID, expected)
	}
	st.Version = expected + 1
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, companyID int) error {
	if companyID <= 0 {
		return ErrInvalidCompany
	}
	_, err := s.db.NewDelete().
		Model((*sessionRow)(nil)).
		Where("company_id = ?", companyID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete onboarding session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
