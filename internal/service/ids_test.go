package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewShareToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token := newShareToken()
		require.Len(t, token, 40)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token generated")
		seen[token] = struct{}{}
	}
}
