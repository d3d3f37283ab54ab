package service

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// newShareToken draws 20 bytes from crypto/rand (160 bits), hex-encoded.
// That is past the point where collisions are a practical concern at any
// issuance volume this system will see; the unique index on the token column
// catches the rest.
func newShareToken() string {
	bytes := make([]byte, 20)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
