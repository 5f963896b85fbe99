package repository

import (
	"context"

	"github.com/turnity/turnity/internal/domain"
)

type AuthSessionRepo interface {
	Get(ctx context.Context) (*domain.AuthSession, error)
	Save(ctx context.Context, s *domain.AuthSession) error
	Clear(ctx context.Context) error
}

type GridScopeRepo interface {
	Get(ctx context.Context, userDocument string) (*domain.GridScope, error)
	Upsert(ctx context.Context, s *domain.GridScope) error
}
