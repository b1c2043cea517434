package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veripay/veripay/types"
)

// ValidateTransactionID checks the shape of a claimed transaction
// identifier for a payment method's chain family, so obviously malformed
// input is rejected without issuing a network call.
func ValidateTransactionID(id string, method types.PaymentMethod) error {
	if id == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}

	switch method.Family() {
	case types.ChainEVM:
		// 0x + 64 hex characters
		if !strings.HasPrefix(id, "0x") || len(id) != 66 || !isHexString(id[2:]) {
			return fmt.Errorf("malformed EVM transaction hash")
		}

	case types.ChainTron:
		// 64 hex characters, no prefix
		if len(id) != 64 || !isHexString(id) {
			return fmt.Errorf("malformed Tron transaction hash")
		}

	case types.ChainUTXO:
		if len(id) != 64 || !isHexString(id) {
			return fmt.Errorf("malformed transaction hash")
		}

	case types.ChainSolana:
		// base58 signature, typically 87-88 characters
		if len(id) < 80 || len(id) > 90 || !isBase58String(id) {
			return fmt.Errorf("malformed Solana transaction signature")
		}
	}

	return nil
}

// ValidateWalletAddress checks the shape of a destination wallet for a
// payment method's chain family.
func ValidateWalletAddress(address string, method types.PaymentMethod) error {
	if address == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}

	switch method.Family() {
	case types.ChainEVM:
		if !strings.HasPrefix(address, "0x") || len(address) != 42 || !isHexString(address[2:]) {
			return fmt.Errorf("malformed EVM address")
		}

	case types.ChainTron:
		// base58check addresses start with T; 34 characters
		if !strings.HasPrefix(address, "T") || len(address) != 34 || !isBase58String(address) {
			return fmt.Errorf("malformed Tron address")
		}

	case types.ChainUTXO:
		// legacy base58 or bech32; only a coarse shape check here, the
		// explorer's output address set is authoritative
		if len(address) < 26 || len(address) > 90 {
			return fmt.Errorf("malformed address length")
		}

	case types.ChainSolana:
		if len(address) < 32 || len(address) > 44 || !isBase58String(address) {
			return fmt.Errorf("malformed Solana address")
		}
	}

	return nil
}

// IsHexAddress reports whether an address uses the 0x hex form, which
// compares case-insensitively; base58/bech32 addresses compare exactly.
func IsHexAddress(address string) bool {
	return strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X")
}

func isHexString(s string) bool {
	match, _ := regexp.MatchString("^[0-9a-fA-F]+$", s)
	return match
}

func isBase58String(s string) bool {
	// Base58 alphabet: 123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz
	match, _ := regexp.MatchString("^[1-9A-HJ-NP-Za-km-z]+$", s)
	return match
}
