package pkg

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

const (
	minRoomCode = 11
	maxRoomCode = 99
)

// NewPlayerID returns a random identity for a client connection.
func NewPlayerID() string {
	return uuid.NewString()
}

// NewRoomID returns a short numeric room code in [11, 99].
func NewRoomID(rnd *rand.Rand) string {
	return strconv.Itoa(minRoomCode + rnd.Intn(maxRoomCode-minRoomCode+1))
}

// NewAIID returns the identity of the n-th AI seat of a room.
func NewAIID(roomID string, n int) string {
	return fmt.Sprintf("ai:%s:%d", roomID, n)
}
