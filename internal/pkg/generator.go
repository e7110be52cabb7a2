package pkg

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const gameCodeBytes = 4

// GenerateGameCode returns a short human-typable game code, e.g. "3F2A9C01".
// Uniqueness is enforced by the game store, not here; collisions are
// handled by the caller's retry loop.
func GenerateGameCode() (string, error) {
	buf := make([]byte, gameCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
