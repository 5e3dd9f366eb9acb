package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeSpace covers 10000000-99999999: eight digits, never a leading zero,
// so codes survive being typed or displayed as plain numbers.
var codeSpace = big.NewInt(90000000)

// newPaymentCode draws a random 8-digit code. Uniqueness among pending orders
// is NOT guaranteed here; the store rejects duplicates and the caller retries.
func newPaymentCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate payment code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+10000000), nil
}
