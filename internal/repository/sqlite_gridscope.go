package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/turnity/turnity/internal/db"
	"github.com/turnity/turnity/internal/domain"
)

// SQLiteGridScopeRepo implements GridScopeRepo using a SQLite database.
type SQLiteGridScopeRepo struct {
	db db.DBTX
}

func NewSQLiteGridScopeRepo(conn db.DBTX) *SQLiteGridScopeRepo {
	return &SQLiteGridScopeRepo{db: conn}
}

func (r *SQLiteGridScopeRepo) Get(ctx context.Context, userDocument string) (*domain.GridScope, error) {
	query := `SELECT user_document, store_id, store_name, department_id, department_name,
		last_month, updated_at
		FROM grid_scope WHERE user_document = ?`
	row := r.db.QueryRowContext(ctx, query, userDocument)

	var s domain.GridScope
	var updatedAt string
	err := row.Scan(
		&s.UserDocument,
		&s.Store.ID,
		&s.Store.Name,
		&s.Department.ID,
		&s.Department.Name,
		&s.Month,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grid scope: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning grid scope: %w", err)
	}
	s.UpdatedAt = parseTimeOrZero(updatedAt)
	return &s, nil
}

func (r *SQLiteGridScopeRepo) Upsert(ctx context.Context, s *domain.GridScope) error {
	query := `INSERT OR REPLACE INTO grid_scope (user_document, store_id, store_name,
		department_id, department_name, last_month, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.UserDocument,
		s.Store.ID,
		s.Store.Name,
		s.Department.ID,
		s.Department.Name,
		s.Month,
		timeOrNow(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting grid scope: %w", err)
	}
	return nil
}
