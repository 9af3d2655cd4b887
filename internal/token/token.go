package token

import (
	"crypto/rand"
	"strconv"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Random returns a string of n characters drawn from a 62-character
// alphanumeric alphabet. The underlying bytes come from crypto/rand;
// the modulo mapping keeps the distribution uniform enough for opaque
// identifiers.
func Random(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// NewUserID returns a new user identifier combining a fixed prefix, the
// current timestamp and 16 random characters. Collisions are treated as
// theoretically improbable rather than actively detected.
func NewUserID() (string, error) {
	suffix, err := Random(16)
	if err != nil {
		return "", err
	}
	return "u" + strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix, nil
}
