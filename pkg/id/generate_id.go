package id

import (
	"crypto/rand"
	"encoding/hex"
)

// ApplicationPrefix marks public loan application ids.
const ApplicationPrefix = "APP"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewApplicationID returns "APP" followed by 32 lowercase hex characters.
func NewApplicationID() string { return ApplicationPrefix + NewID32() }
