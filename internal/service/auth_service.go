package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tcdw/cms/internal/auth"
	apperr "github.com/tcdw/cms/internal/errors"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/repository"
)

// RegisterInput carries validated registration fields. Role is already
// defaulted to editor by the handler.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// AuthService handles registration, login and account operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, current, newPassword string) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password. Username and email must
// both be unused.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Conflict("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal()
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal()
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal()
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a racing registration can still hit the unique index
		return nil, apperr.FromStore(err, "user not found")
	}
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", apperr.Unauthenticated("invalid username or password")
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperr.Unauthenticated("invalid username or password")
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", apperr.Internal()
	}
	return user, token, nil
}

// Profile returns the authenticated user's account.
func (s *authService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *authService) ChangePassword(ctx context.Context, userID uint, current, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperr.FromStore(err, "user not found")
	}

	if !auth.CheckPassword(current, user.PasswordHash) {
		return apperr.Unauthenticated("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal()
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Internal()
	}
	return nil
}
