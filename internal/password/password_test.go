package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prospectly/leadtrack/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, password.Verify("hunter22", hash))
	require.False(t, password.Verify("hunter23", hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	require.False(t, password.Verify("whatever", "not-a-bcrypt-hash"))
}
