package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// UserService owns sign-up, sign-in and user maintenance.
type UserService struct {
	users    UserStore
	sessions *SessionManager
	now      func() time.Time
}

func NewUserService(users UserStore, sessions *SessionManager) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful sign-in.
type Session struct {
	User      domain.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"-"`
}

// SignUp registers a user. The uniqueness pre-check is racy; the store's
// unique index is what finally rejects a concurrent duplicate.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	v := domain.NewValidator()
	v.CheckRequired(in.Name, "name")
	v.CheckEmail(in.Email)
	v.CheckPassword(in.Password)
	if err := v.Err(); err != nil {
		AuthEvents.WithLabelValues("signup", "invalid").Inc()
		return nil, err
	}

	_, err := s.users.FindUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		AuthEvents.WithLabelValues("signup", "conflict").Inc()
		return nil, fmt.Errorf("user with that email %w", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &domain.User{
		ID:           domain.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			AuthEvents.WithLabelValues("signup", "conflict").Inc()
		}
		return nil, err
	}

	AuthEvents.WithLabelValues("signup", "ok").Inc()
	logger.WithContext(ctx).Info("user signed up", "user_id", u.ID)
	return u, nil
}

func (s *UserService) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	v := domain.NewValidator()
	v.CheckRequired(in.Email, "email")
	v.Check(in.Password != "", "password", "must be provided")
	if err := v.Err(); err != nil {
		AuthEvents.WithLabelValues("signin", "invalid").Inc()
		return nil, err
	}

	u, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			AuthEvents.WithLabelValues("signin", "unknown_user").Inc()
		}
		return nil, err
	}

	ok, err := checkPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		AuthEvents.WithLabelValues("signin", "bad_password").Inc()
		return nil, fmt.Errorf("wrong password: %w", domain.ErrInvalidCredentials)
	}

	token, exp, err := s.sessions.Issue(u)
	if err != nil {
		return nil, err
	}

	AuthEvents.WithLabelValues("signin", "ok").Inc()
	logger.WithContext(ctx).Info("user signed in", "user_id", u.ID)
	return &Session{User: u.Public(), Token: token, ExpiresAt: exp}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListUsers(ctx)
}

// UpdateUser applies a partial update. The password is re-hashed only when the
// patch carries one.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if !domain.ValidID(id) {
		return nil, domain.InvalidField("id", "must be a valid id")
	}
	if patch.Email != nil {
		e := strings.TrimSpace(*patch.Email)
		patch.Email = &e
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	upd := domain.UserUpdate{
		Name:      patch.Name,
		Email:     patch.Email,
		UpdatedAt: s.now(),
	}

	if patch.Email != nil {
		existing, err := s.users.FindUserByEmail(ctx, *patch.Email)
		switch {
		case err == nil && existing.ID != id:
			return nil, fmt.Errorf("user with that email %w", domain.ErrConflict)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	if patch.Password != nil {
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}

	return s.users.UpdateUser(ctx, id, upd)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	if !domain.ValidID(id) {
		return nil, domain.InvalidField("id", "must be a valid id")
	}
	return s.users.DeleteUser(ctx, id)
}
