package utils

import (
	"MindwellGo/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 令牌生成与解析往返
func TestTokenRoundTrip(t *testing.T) {
	config.InitTestLogger()

	token, err := GenerateToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

// 被篡改的令牌解析失败
func TestParseTokenTampered(t *testing.T) {
	config.InitTestLogger()

	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestGenerateIDUnique(t *testing.T) {
	config.InitTestLogger()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}
