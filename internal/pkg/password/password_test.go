package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("peekaboo")
	require.NoError(t, err)
	require.NotEqual(t, "peekaboo", hash)

	require.NoError(t, Compare(hash, "peekaboo"))
	require.Error(t, Compare(hash, "peekabop"))
	require.Error(t, Compare(hash, ""))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same input")
	require.NoError(t, err)
	h2, err := Hash("same input")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
