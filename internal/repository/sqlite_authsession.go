package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/turnity/turnity/internal/db"
	"github.com/turnity/turnity/internal/domain"
)

// SQLiteAuthSessionRepo implements AuthSessionRepo using a SQLite database.
type SQLiteAuthSessionRepo struct {
	db db.DBTX
}

func NewSQLiteAuthSessionRepo(conn db.DBTX) *SQLiteAuthSessionRepo {
	return &SQLiteAuthSessionRepo{db: conn}
}

func (r *SQLiteAuthSessionRepo) Get(ctx context.Context) (*domain.AuthSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT token, user_json, saved_at FROM auth_session WHERE id = 'current'`)

	var token, userJSON, savedAt string
	if err := row.Scan(&token, &userJSON, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auth session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning auth session: %w", err)
	}

	s := &domain.AuthSession{Token: token, SavedAt: parseTimeOrZero(savedAt)}
	if err := json.Unmarshal([]byte(userJSON), &s.User); err != nil {
		return nil, fmt.Errorf("decoding stored user: %w", err)
	}
	return s, nil
}

func (r *SQLiteAuthSessionRepo) Save(ctx context.Context, s *domain.AuthSession) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO auth_session (id, token, user_json, saved_at)
		VALUES ('current', ?, ?, ?)`,
		s.Token, string(userJSON), timeOrNow(s.SavedAt),
	)
	if err != nil {
		return fmt.Errorf("saving auth session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (r *SQLiteAuthSessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_session`); err != nil {
		return fmt.Errorf("clearing auth session: %w", err)
	}
	return nil
}
