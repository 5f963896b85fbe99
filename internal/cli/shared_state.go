package cli

import (
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App     *App
	Session *domain.AuthSession

	// Grid is the mounted grid session, nil until a scope is picked.
	Grid *grid.Session

	// Terminal dimensions
	Width  int
	Height int
}

// User is the signed-in operator.
func (s *SharedState) User() domain.User {
	if s.Session == nil {
		return domain.User{}
	}
	return s.Session.User
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
