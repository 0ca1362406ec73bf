package auth

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

const otpLength = 4

// generateOTP returns a fixed-length numeric one-time code.
func generateOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.WithStack(err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
