package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperr "github.com/tcdw/cms/internal/errors"
)

func TestIsSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "a", "post-123", "2024-review", "a-b-c"}
	for _, s := range valid {
		assert.True(t, IsSlug(s), "expected %q to be a valid slug", s)
	}

	invalid := []string{"", "Hello", "hello world", "hello_world", "-hello", "hello-", "hello--world", "héllo", "hello!"}
	for _, s := range invalid {
		assert.False(t, IsSlug(s), "expected %q to be rejected", s)
	}
}

type sampleRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Slug     string `json:"slug" validate:"required,slug"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published"`
}

func TestValidator_ReturnsTaggedError(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Username: "al",
		Email:    "not-an-email",
		Slug:     "Bad Slug",
		Status:   "archived",
	})
	assert.Error(t, err)

	appErr, ok := apperr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 4)

	// messages name fields by their wire names, in declaration order
	assert.Contains(t, appErr.Fields[0], "username")
	assert.Contains(t, appErr.Fields[1], "email")
	assert.Contains(t, appErr.Fields[2], "slug")
	assert.Contains(t, appErr.Fields[3], "status")
}

func TestValidator_AcceptsValidInput(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Slug:     "hello-world",
		Status:   "published",
	})
	assert.NoError(t, err)
}
