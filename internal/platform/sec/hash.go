// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password secret using bcrypt.
//
// The reader app never sends the plain password; the secret stored here is
// the client-side SHA-256 digest, hashed again so a database leak does not
// expose replayable credentials.
func HashPassword(secret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a secret with its bcrypt hash.
func CheckPasswordHash(secret, existingHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(secret)) == nil
}

// DigestPassword returns the lower-case SHA-256 hex digest submitted by clients.
func DigestPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
