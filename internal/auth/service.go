// Package auth keeps the operator's login: it exchanges credentials with the
// backend, persists the token locally and hands the session to callers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/repository"
	"github.com/turnity/turnity/internal/turnityapi"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in; run `turnity login`")
	ErrSessionExpired     = errors.New("session expired; run `turnity login`")
	ErrMissingCredentials = errors.New("user and password are required")
	ErrForbidden          = errors.New("your role does not allow this")
)

// API is the subset of the backend used for login.
type API interface {
	Login(ctx context.Context, identifier, password string) (*turnityapi.LoginResult, error)
	Me(ctx context.Context) (*domain.User, error)
}

// Service owns the persisted session. It also serves as the API client's
// token source and 401 hook.
type Service struct {
	repo repository.AuthSessionRepo
	log  logrus.FieldLogger
	now  func() time.Time

	mu    sync.RWMutex
	api   API
	token string
}

func NewService(repo repository.AuthSessionRepo, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Attach sets the backend used by Login. The client usually needs the
// service as its token source, hence the separate step.
func (s *Service) Attach(api API) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// Token implements turnityapi.TokenSource.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Service) setToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

func (s *Service) backend() (API, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.api == nil {
		return nil, errors.New("auth service has no backend attached")
	}
	return s.api, nil
}

// Login exchanges credentials for a token, resolves the user (asking
// /users/me when the login answer has none) and persists both.
func (s *Service) Login(ctx context.Context, identifier, password string) (*domain.AuthSession, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	api, err := s.backend()
	if err != nil {
		return nil, err
	}

	res, err := api.Login(ctx, identifier, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	s.setToken(res.Token)

	user := res.User
	if user == nil {
		user, err = api.Me(ctx)
		if err != nil {
			s.setToken("")
			return nil, fmt.Errorf("fetching user profile: %w", err)
		}
	}
	user.NormalizeRoles()

	sess := &domain.AuthSession{Token: res.Token, User: *user, SavedAt: s.now()}
	if err := s.repo.Save(ctx, sess); err != nil {
		s.setToken("")
		return nil, fmt.Errorf("saving session: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"user": user.Document,
		"role": user.PrimaryRole(),
	}).Info("logged in")
	return sess, nil
}

// Current returns the stored session. A token whose exp claim has passed is
// cleared and reported as ErrSessionExpired.
func (s *Service) Current(ctx context.Context) (*domain.AuthSession, error) {
	sess, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	if exp, ok := TokenExpiry(sess.Token); ok && !s.now().Before(exp) {
		s.log.WithField("expired_at", exp.Format(time.RFC3339)).Info("stored session expired")
		if err := s.clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	s.setToken(sess.Token)
	return sess, nil
}

// Logout forgets the session locally.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.log.Info("logged out")
	return nil
}

// Expire is the API client's 401 hook: the backend no longer accepts the
// token, so the stored session is dropped.
func (s *Service) Expire() {
	s.log.Warn("backend rejected the session token")
	if err := s.clear(context.Background()); err != nil {
		s.log.WithError(err).Error("clearing rejected session")
	}
}

func (s *Service) clear(ctx context.Context) error {
	s.setToken("")
	return s.repo.Clear(ctx)
}

// Require returns ErrForbidden unless the session's user passes the role
// gate. Administrators pass every gate.
func Require(sess *domain.AuthSession, roles ...string) error {
	if sess == nil {
		return ErrNotLoggedIn
	}
	if !sess.User.CanAccess(roles...) {
		return fmt.Errorf("%w (role %q)", ErrForbidden, sess.User.PrimaryRole())
	}
	return nil
}
