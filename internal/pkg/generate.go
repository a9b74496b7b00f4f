package pkg

import (
	"math/rand"

	"github.com/google/uuid"
)

const (
	roomCodeLength = 6

	// No 0/O, 1/I to keep codes readable when shared out loud.
	roomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateNewSessionID - identity for a freshly connected client.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateMatchID - identity for an archived match record.
func GenerateMatchID() string {
	return uuid.NewString()
}

// GenerateRoomCode - a 6-character uppercase room code. Uniqueness against
// live rooms is the registry's job; it regenerates on collision.
func GenerateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeCharset[rand.Intn(len(roomCodeCharset))] //nolint: gosec // codes are not secrets
	}

	return string(code)
}
