// Package policy centralizes the business rules every chain adapter
// applies to a normalized transaction: destination matching, minimum
// amount floors, and tolerance-banded amount comparison. Keeping one
// tested implementation here stops the per-adapter copies from drifting.
package policy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/utils"
)

// Rule is the amount policy bound to one payment method.
type Rule struct {
	// MinAmount is an anti-dust floor in the asset's human unit,
	// independent of the invoiced amount. Zero disables the check.
	MinAmount decimal.Decimal

	// Tolerance is the allowed relative deviation between the observed
	// and the invoiced amount, e.g. 0.02 for 2%. Zero disables the band.
	Tolerance decimal.Decimal

	// AmountVerified is false for paths whose adapter cannot recover a
	// trustworthy per-transfer amount; their success verdicts are
	// PARTIALLY_VERIFIED instead of VERIFIED.
	AmountVerified bool
}

var rules = map[types.PaymentMethod]Rule{
	// UTXO outputs carry no invoice semantics, so only a floor applies.
	types.MethodNativeBTC: {MinAmount: decimal.RequireFromString("0.0001"), AmountVerified: true},
	types.MethodNativeLTC: {MinAmount: decimal.RequireFromString("0.001"), AmountVerified: true},

	types.MethodNativeETH: {MinAmount: decimal.RequireFromString("0.001"), AmountVerified: true},
	types.MethodNativeBNB: {MinAmount: decimal.RequireFromString("0.001"), AmountVerified: true},

	// Native TRX is accepted as "any qualifying payment" above 1 TRX;
	// exact invoice matching against a coin price is not attempted.
	types.MethodNativeTRX: {MinAmount: decimal.NewFromInt(1), AmountVerified: true},

	types.MethodNativeSOL: {MinAmount: decimal.RequireFromString("0.001"), AmountVerified: true},

	// TRC20 transfer records carry exact per-transfer amounts, so this
	// is the one path with a tight invoice match.
	types.MethodUSDTTRC20: {Tolerance: decimal.RequireFromString("0.02"), AmountVerified: true},

	// EVM token paths are confirmed without decoding the transfer log;
	// the amount stays unverified and the verdict is advisory.
	types.MethodUSDTERC20: {AmountVerified: false},
	types.MethodUSDTBEP20: {AmountVerified: false},
}

// RuleFor returns the amount rule for a payment method.
func RuleFor(m types.PaymentMethod) Rule {
	return rules[m]
}

// MatchesWallet compares an observed destination against the configured
// wallet. Hex-style addresses (EVM) are case-insensitive; base58 and
// bech32 addresses (BTC, LTC, SOL, Tron native) compare exactly because
// their case carries information.
func MatchesWallet(address, configured string) bool {
	if address == "" || configured == "" {
		return false
	}
	if utils.IsHexAddress(address) && utils.IsHexAddress(configured) {
		return strings.EqualFold(address, configured)
	}
	return address == configured
}

// MatchesContract compares token contract addresses case-insensitively;
// both Tron and EVM explorers report contract identifiers with unstable
// casing.
func MatchesContract(contract, configured string) bool {
	if contract == "" || configured == "" {
		return false
	}
	return strings.EqualFold(contract, configured)
}

// WithinTolerance reports whether actual deviates from expected by at
// most pct (relative). Decimal arithmetic keeps the band exact at its
// boundary.
func WithinTolerance(actual, expected, pct decimal.Decimal) bool {
	if !expected.IsPositive() {
		return false
	}
	deviation := actual.Sub(expected).Abs().Div(expected)
	return deviation.LessThanOrEqual(pct)
}

// Evaluate applies a method's amount rule to a normalized transaction
// whose destination has already been matched by the adapter.
func Evaluate(tx *types.ChainTransaction, req *types.VerificationRequest, rule Rule) *types.VerificationVerdict {
	symbol := req.PaymentMethod.Symbol()

	if !rule.AmountVerified {
		return types.PartiallyVerified(tx, fmt.Sprintf("%s transaction confirmed", symbol))
	}

	if rule.MinAmount.IsPositive() && tx.Amount.LessThan(rule.MinAmount) {
		return types.Rejected(types.ReasonAmountTooLow,
			fmt.Sprintf("Amount too low: %s %s", tx.Amount.String(), symbol))
	}

	if rule.Tolerance.IsPositive() && !WithinTolerance(tx.Amount, req.ExpectedAmount, rule.Tolerance) {
		return types.Rejected(types.ReasonAmountMismatch,
			fmt.Sprintf("Amount mismatch: expected %s, got %s %s",
				req.ExpectedAmount.String(), tx.Amount.String(), symbol))
	}

	return types.Verified(tx, fmt.Sprintf("%s payment verified successfully", symbol))
}
