package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 8
)

// CodeGenerator produces candidate code strings
type CodeGenerator func() (string, error)

// RandomCode returns an 8 character code drawn uniformly from [A-Za-z0-9]
func RandomCode() (string, error) {
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
