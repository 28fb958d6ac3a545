// Package cryptox provides password hashing for locally provisioned
// accounts. Hashes are argon2id with a per-user random salt; verification
// is constant-time.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/avolkau/buildhub/internal/common"
)

const (
	saltSize = 16

	// argon2id parameters
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword derives an argon2id hash of password with a fresh random
// salt. Both the hash and the salt must be stored with the user record.
func HashPassword(password []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(saltSize)
	hash = deriveKey(password, salt)
	return hash, salt
}

// VerifyPassword reports whether password matches the stored hash+salt
// pair. The comparison is constant-time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := deriveKey(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}
