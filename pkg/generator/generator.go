package generator

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const UserIDLength = 24

// RandomID returns length characters drawn uniformly from [0-9A-Za-z].
func RandomID(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))

	for i := range result {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[idx.Int64()]
	}

	return string(result), nil
}

func UserID() (string, error) {
	return RandomID(UserIDLength)
}

// SessionID doubles as the token jti.
func SessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func TenantID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
