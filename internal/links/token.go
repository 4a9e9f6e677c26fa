package links

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewToken returns an opaque URL-safe token for a customer link. 16 random
// bytes gives 128 bits of entropy, rendered as 32 hex characters.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
