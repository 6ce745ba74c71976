package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// Min and Max bound every generated code; both are 6 digits so no zero-padding is needed.
	Min = 100000
	Max = 999999
)

// NewCode returns a uniformly random 6-digit code in [Min, Max].
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(Max-Min+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+Min, 10), nil
}
