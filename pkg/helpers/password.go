package helpers

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"

	"github.com/Widedbounou/SK-B/pkg/apperror"
)

const (
	// SaltLength and TokenLength are the sizes of the random strings issued per user.
	SaltLength  = 64
	TokenLength = 64

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Credentials is what gets stored for a password: never the password itself.
type Credentials struct {
	Salt  string
	Hash  string
	Token string
}

// IssueCredentials derives a hash from password and a fresh random salt and
// issues a new opaque session token.
func IssueCredentials(password string) (Credentials, error) {
	if password == "" {
		return Credentials{}, apperror.Validation("password is required")
	}
	salt, err := RandomToken(SaltLength)
	if err != nil {
		return Credentials{}, err
	}
	token, err := RandomToken(TokenLength)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Salt: salt, Hash: HashPassword(password, salt), Token: token}, nil
}

// RotateCredentials is used on password change. The previous token stops
// matching once the new one is stored.
func RotateCredentials(password string) (Credentials, error) {
	return IssueCredentials(password)
}

// HashPassword returns base64(argon2id(password, salt)). It is deterministic for a given salt.
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.StdEncoding.EncodeToString(key)
}

// VerifyPassword recomputes the hash and compares it in constant time.
func VerifyPassword(password, salt, storedHash string) (bool, error) {
	if password == "" || salt == "" {
		return false, apperror.Validation("password is required")
	}
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1, nil
}

// TokensEqual compares two session tokens in constant time.
func TokensEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
