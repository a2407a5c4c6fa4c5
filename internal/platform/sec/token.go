// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken produces a cryptographically random hex token.
// The returned string is twice as long as the requested byte length.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken computes the SHA-256 digest of an opaque token.
// Only the digest is ever persisted; the raw token exists client-side only.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
