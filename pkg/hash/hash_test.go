package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("ValidPass1!")
	require.NoError(t, err)
	assert.NotEqual(t, "ValidPass1!", h)
	assert.True(t, CheckPassword(h, "ValidPass1!"))
	assert.False(t, CheckPassword(h, "validpass1!"))
	assert.False(t, CheckPassword("not-a-hash", "ValidPass1!"))
}
