package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"github.com/tcdw/cms/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	user := &model.User{
		ID:       42,
		Username: "alice",
		Email:    "alice@example.com",
		Role:     model.RoleEditor,
	}

	token, err := svc.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims := svc.VerifyToken(token)
	assert.NotNil(t, claims)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleEditor, claims.Role)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	secret := "test-secret"
	svc := NewJWTService(secret, time.Hour)

	claims := &Claims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	assert.Nil(t, svc.VerifyToken(expired))
}

func TestJWTService_TamperedToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, err := svc.GenerateToken(&model.User{ID: 1, Username: "alice", Role: model.RoleEditor})
	assert.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}
	assert.Nil(t, svc.VerifyToken(tampered))
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&model.User{ID: 1, Username: "alice"})
	assert.NoError(t, err)
	assert.Nil(t, verifier.VerifyToken(token))
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	assert.Nil(t, svc.VerifyToken("not-a-token"))
	assert.Nil(t, svc.VerifyToken(""))
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"missing prefix", "abc.def.ghi", ""},
		{"lowercase prefix", "bearer abc.def.ghi", ""},
		{"no space", "Bearerabc", ""},
		{"empty header", "", ""},
		{"prefix only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBearer(tt.header))
		})
	}
}
