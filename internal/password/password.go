package password

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/dkravets/verichat/internal/token"
)

const saltLength = 22 // printable encoding of 16 random bytes

// Hash derives a salted digest for the given password and returns it
// in the stored "salt:hexdigest" form.
func Hash(password string) (string, error) {
	salt, err := token.Random(saltLength)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(salt + password))
	return salt + ":" + hex.EncodeToString(sum[:]), nil
}

// Verify checks a candidate password against a stored "salt:hexdigest"
// value. The comparison runs over every byte regardless of mismatches.
// A malformed stored value yields false, never an error.
func Verify(stored, candidate string) bool {
	salt, expectedHex, ok := strings.Cut(stored, ":")
	if !ok || salt == "" {
		return false
	}

	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) != sha256.Size {
		return false
	}

	actual := sha256.Sum256([]byte(salt + candidate))

	var diff byte
	for i := 0; i < sha256.Size; i++ {
		diff |= actual[i] ^ expected[i]
	}
	return diff == 0
}
