package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateSecureRandomString returns a hex string of the given byte length.
func GenerateSecureRandomString(byteLength int) (string, error) {
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewAccountNumber returns a 10-digit account number (no leading zero),
// matching the handle format the login path resolves.
func NewAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1_000_000_000), nil
}

// NewTransferReference returns a human-readable transfer reference of the
// form NBTRX-XXXXXXXX. It is not guaranteed globally unique; the ledger
// de-duplicates on (owner, reference) at settlement.
func NewTransferReference() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate transfer reference: %w", err)
	}
	return fmt.Sprintf("NBTRX-%08d", n.Int64()), nil
}

// NewOTP returns a 6-digit one-time code.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100_000), nil
}
