package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashAnswer returns the lower-case hex SHA-256 digest of the UTF-8 answer.
// Digests are unsalted: identical answers hash identically across competitions.
func HashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(answer))
	return hex.EncodeToString(sum[:])
}

// VerifyAnswer reports whether the answer hashes to the stored digest.
// The comparison is exact, so an upper-case stored digest never matches.
func VerifyAnswer(answer, storedDigest string) bool {
	return subtle.ConstantTimeCompare([]byte(HashAnswer(answer)), []byte(storedDigest)) == 1
}
