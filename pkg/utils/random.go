package utils

import (
	"crypto/rand"
	"math/big"
)

// DefaultCodeCharset excludes lowercase letters so codes survive
// case-insensitive transcription.
const DefaultCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode generates a random code of length n from the given charset.
// Falls back to DefaultCodeCharset when charset is empty.
func GenerateCode(n int, charset string) string {
	if charset == "" {
		charset = DefaultCodeCharset
	}
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			// crypto/rand failure; callers treat "" as a retry signal
			return ""
		}
		b[i] = charset[num.Int64()]
	}
	return string(b)
}
