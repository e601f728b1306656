package app

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultAdminPassword seeds the admin hash of a freshly created document.
// Deployments are expected to change it via the document file.
const DefaultAdminPassword = "admin123"

// HashPassword returns the hex-encoded SHA-256 of the plaintext, matching
// the hash stored in the document.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// NewToken generates a random URL-safe session token.
func NewToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
