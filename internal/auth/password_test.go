package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	assert.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	assert.True(t, CheckPassword("pw123456", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
	assert.False(t, CheckPassword("pw123456", "not-a-hash"))
}
