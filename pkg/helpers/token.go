package helpers

import (
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomToken returns a cryptographically random alphanumeric string of length n.
func RandomToken(n int) (string, error) {
	size := big.NewInt(int64(len(tokenAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[idx.Int64()]
	}
	return string(b), nil
}

// KeyUserSession is the Redis key caching a user's active session.
func KeyUserSession(uid string) string {
	return "user:session:" + uid
}

// KeyOffer is the Redis key caching a resolved offer.
func KeyOffer(id string) string {
	return "offer:" + id
}
