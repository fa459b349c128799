// Package sqlite provides a SQLite-backed estimate repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"cost-seer/domain"
	"cost-seer/repository"
	"cost-seer/repository/sqlite/migrations"
)

// Store persists saved estimates in the projects table.
type Store struct {
	sqlDB *sql.DB
	clock *repository.MonotonicClock
}

// Option customizes a Store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the wall clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite estimate store and applies embedded migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cfg := options{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var latest sql.NullInt64
	if err := sqlDB.QueryRowContext(ctx, `SELECT MAX(created_at) FROM projects`).Scan(&latest); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("read latest created_at: %w", err)
	}
	var last time.Time
	if latest.Valid {
		last = fromMillis(latest.Int64)
	}

	return &Store{
		sqlDB: sqlDB,
		clock: repository.NewMonotonicClock(cfg.now, last),
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Append inserts one project row for ownerID.
func (s *Store) Append(ctx context.Context, ownerID string, estimate domain.Estimate) (domain.SavedEstimate, error) {
	if err := ctx.Err(); err != nil {
		return domain.SavedEstimate{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.SavedEstimate{}, repository.ErrStoreNotConfigured
	}

	saved := domain.SavedEstimate{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Parameters: estimate.Parameters,
		Amount:     estimate.Amount,
		CreatedAt:  s.clock.Next(),
	}
	p := saved.Parameters
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (
		   id,
		   user_id,
		   team_exp,
		   manager_exp,
		   length,
		   transactions,
		   entities,
		   points_adjust,
		   language,
		   estimated_cost,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID,
		saved.OwnerID,
		p.TeamExp,
		p.ManagerExp,
		p.Length,
		p.Transactions,
		p.Entities,
		p.PointsAdjust,
		p.Language,
		decimal.NewFromInt(saved.Amount).String(),
		toMillis(saved.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.SavedEstimate{}, fmt.Errorf("%w: %v", repository.ErrConstraintViolation, err)
		}
		return domain.SavedEstimate{}, fmt.Errorf("insert project: %w", err)
	}
	return saved, nil
}

// ListByOwner returns the owner's rows ordered by created_at descending.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]domain.SavedEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, repository.ErrStoreNotConfigured
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, team_exp, manager_exp, length, transactions,
		        entities, points_adjust, language, estimated_cost, created_at
		   FROM projects
		  WHERE user_id = ?
		  ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []domain.SavedEstimate{}
	for rows.Next() {
		var saved domain.SavedEstimate
		var cost string
		var createdAt int64
		if err := rows.Scan(
			&saved.ID,
			&saved.OwnerID,
			&saved.Parameters.TeamExp,
			&saved.Parameters.ManagerExp,
			&saved.Parameters.Length,
			&saved.Parameters.Transactions,
			&saved.Parameters.Entities,
			&saved.Parameters.PointsAdjust,
			&saved.Parameters.Language,
			&cost,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		amount, err := parseCost(cost)
		if err != nil {
			return nil, fmt.Errorf("list projects: row %s: %w", saved.ID, err)
		}
		saved.Amount = amount
		saved.CreatedAt = fromMillis(createdAt)
		out = append(out, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// DeleteByID removes the row matching both ownerID and id. Missing rows are
// not an error.
func (s *Store) DeleteByID(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return repository.ErrStoreNotConfigured
	}

	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM projects WHERE id = ? AND user_id = ?`,
		id,
		ownerID,
	); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// parseCost coerces the stored estimated_cost text back to whole currency
// units.
func parseCost(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse estimated_cost %q: %w", raw, err)
	}
	return d.Round(0).IntPart(), nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK,
			sqlite3lib.SQLITE_CONSTRAINT_NOTNULL,
			sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY,
			sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

var _ repository.EstimateRepository = (*Store)(nil)
