package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

// InitHashSalt loads the log hash salt from the environment.
// In production, set LOG_HASH_SALT.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

func init() {
	InitHashSalt()
}

// InitHashSaltForTesting overrides the salt with a known value in tests.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashSessionID creates a privacy-preserving hash of a chat session id.
// Lets us correlate a session's turns in logs without exposing the cookie value.
func HashSessionID(sessionID string) string {
	data := fmt.Sprintf("%s:%s", sessionID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters for readability
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText is a general-purpose sanitizer for user-provided text
// (chat messages, category names, report filters).
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}

// SanitizeFilename keeps the extension but redacts the name of uploaded files.
func SanitizeFilename(name string) string {
	if name == "" {
		return "<empty>"
	}

	ext := ""
	if idx := strings.LastIndex(name, "."); idx != -1 {
		ext = name[idx:]
	}
	return fmt.Sprintf("<redacted:%d chars>%s", len(name), ext)
}
