package pkg

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerID(t *testing.T) {
	id := NewPlayerID()

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewPlayerID())
}

func TestNewRoomID(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		code, err := strconv.Atoi(NewRoomID(rnd))
		require.NoError(t, err)
		require.GreaterOrEqual(t, code, minRoomCode)
		require.LessOrEqual(t, code, maxRoomCode)
	}
}

func TestNewAIID(t *testing.T) {
	assert.Equal(t, "ai:42:1", NewAIID("42", 1))
}
