package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/google/uuid"
)

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

// SignupInput registers a new user.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

// LoginInput authenticates an existing user.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfilePatch updates the caller's profile; empty values are ignored.
type ProfilePatch struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Session is returned by signup and login.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// AuthService handles signup, login and profile maintenance.
type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in, ""); err != nil {
		return Session{}, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return Session{}, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     in.Email,
		Role:      domain.Role(in.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(in.Password, s.bcryptCost); err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return Session{}, err
	}
	logging.FromContext(ctx).WithField("user_id", user.ID).Info("user registered")
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in, ""); err != nil {
		return Session{}, err
	}
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := user.CheckPassword(in.Password); err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (domain.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if name := strings.TrimSpace(patch.Name); name != "" {
		user.Name = name
	}
	if patch.Bio != "" {
		user.Bio = patch.Bio
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) session(user domain.User) (Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
