package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/tcdw/cms/internal/auth"
	apperr "github.com/tcdw/cms/internal/errors"
	"github.com/tcdw/cms/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name         string
		input        RegisterInput
		setupMock    func(*MockUserRepository)
		wantConflict bool
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw123456", Role: model.RoleEditor},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "duplicate username conflicts",
			input: RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw123456", Role: model.RoleEditor},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			wantConflict: true,
		},
		{
			name:  "duplicate email conflicts",
			input: RegisterInput{Username: "bob", Email: "alice@example.com", Password: "pw123456", Role: model.RoleEditor},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{Email: "alice@example.com"}, nil)
			},
			wantConflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour))
			user, err := svc.Register(context.Background(), tt.input)

			if tt.wantConflict {
				assert.Error(t, err)
				appErr, ok := apperr.As(err)
				assert.True(t, ok)
				assert.Equal(t, apperr.KindConflict, appErr.Kind)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.input.Username, user.Username)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := auth.HashPassword("pw123456")
	stored := &model.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         model.RoleEditor,
	}

	jwtService := auth.NewJWTService("test-secret", time.Hour)

	t.Run("successful login issues a verifiable token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)

		svc := NewAuthService(mockRepo, jwtService)
		user, token, err := svc.Login(context.Background(), "alice", "pw123456")

		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		claims := jwtService.VerifyToken(token)
		assert.NotNil(t, claims)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, model.RoleEditor, claims.Role)
	})

	t.Run("wrong password is unauthenticated", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)

		svc := NewAuthService(mockRepo, jwtService)
		_, _, err := svc.Login(context.Background(), "alice", "wrong-password")

		appErr, ok := apperr.As(err)
		assert.True(t, ok)
		assert.Equal(t, apperr.KindUnauthenticated, appErr.Kind)
	})

	t.Run("unknown username is unauthenticated", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(mockRepo, jwtService)
		_, _, err := svc.Login(context.Background(), "nobody", "pw123456")

		appErr, ok := apperr.As(err)
		assert.True(t, ok)
		assert.Equal(t, apperr.KindUnauthenticated, appErr.Kind)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hash, _ := auth.HashPassword("old-password")
	stored := &model.User{ID: 7, Username: "alice", PasswordHash: hash}
	jwtService := auth.NewJWTService("test-secret", time.Hour)

	t.Run("correct current password succeeds", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(stored, nil)
		mockRepo.On("UpdatePassword", mock.Anything, uint(7), mock.AnythingOfType("string")).Return(nil)

		svc := NewAuthService(mockRepo, jwtService)
		err := svc.ChangePassword(context.Background(), 7, "old-password", "new-password")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(stored, nil)

		svc := NewAuthService(mockRepo, jwtService)
		err := svc.ChangePassword(context.Background(), 7, "wrong", "new-password")

		appErr, ok := apperr.As(err)
		assert.True(t, ok)
		assert.Equal(t, apperr.KindUnauthenticated, appErr.Kind)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
