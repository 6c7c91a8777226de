// Package password provides the credential digest used to store and verify account passwords.
//
// The digest is a plain SHA-256 without a per-account salt. Existing credential rows were written
// with this scheme, so it is kept as is; identical passwords therefore share identical digests.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 digest of plaintext.
func Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether plaintext hashes to digest.
func Verify(plaintext, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(plaintext)), []byte(digest)) == 1
}
