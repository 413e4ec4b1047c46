package pkg

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGameID(t *testing.T) {
	// When: an identifier is generated
	id, err := GenerateGameID()

	// Then: it is a non-negative number below the upper bound
	require.NoError(t, err)

	n, err := strconv.Atoi(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, maxGameID)
}
