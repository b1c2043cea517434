package types

// ChainFamily classifies a payment method into a blockchain family.
// Each family is served by exactly one chain adapter implementation.
type ChainFamily string

const (
	ChainUTXO   ChainFamily = "utxo"
	ChainEVM    ChainFamily = "evm"
	ChainTron   ChainFamily = "tron"
	ChainSolana ChainFamily = "solana"
)

// PaymentMethod represents supported payment rails: either a chain's
// native coin or a stablecoin ledger hosted on one.
type PaymentMethod string

const (
	// Native coins
	MethodNativeETH PaymentMethod = "NATIVE_ETH"
	MethodNativeBNB PaymentMethod = "NATIVE_BNB"
	MethodNativeTRX PaymentMethod = "NATIVE_TRX"
	MethodNativeBTC PaymentMethod = "NATIVE_BTC"
	MethodNativeLTC PaymentMethod = "NATIVE_LTC"
	MethodNativeSOL PaymentMethod = "NATIVE_SOL"

	// USDT token ledgers
	MethodUSDTTRC20 PaymentMethod = "TOKEN_USDT_TRC20"
	MethodUSDTERC20 PaymentMethod = "TOKEN_USDT_ERC20"
	MethodUSDTBEP20 PaymentMethod = "TOKEN_USDT_BEP20"
)

// Methods lists every supported payment method.
func Methods() []PaymentMethod {
	return []PaymentMethod{
		MethodNativeETH, MethodNativeBNB, MethodNativeTRX,
		MethodNativeBTC, MethodNativeLTC, MethodNativeSOL,
		MethodUSDTTRC20, MethodUSDTERC20, MethodUSDTBEP20,
	}
}

func (m PaymentMethod) IsUTXO() bool {
	return m == MethodNativeBTC || m == MethodNativeLTC
}

func (m PaymentMethod) IsEVM() bool {
	return m == MethodNativeETH || m == MethodNativeBNB ||
		m == MethodUSDTERC20 || m == MethodUSDTBEP20
}

func (m PaymentMethod) IsTron() bool {
	return m == MethodNativeTRX || m == MethodUSDTTRC20
}

func (m PaymentMethod) IsSolana() bool {
	return m == MethodNativeSOL
}

// IsToken reports whether the method pays in a token ledger rather than
// the chain's native coin.
func (m PaymentMethod) IsToken() bool {
	return m == MethodUSDTTRC20 || m == MethodUSDTERC20 || m == MethodUSDTBEP20
}

// Supported reports whether the method belongs to the closed enum.
func (m PaymentMethod) Supported() bool {
	switch m {
	case MethodNativeETH, MethodNativeBNB, MethodNativeTRX,
		MethodNativeBTC, MethodNativeLTC, MethodNativeSOL,
		MethodUSDTTRC20, MethodUSDTERC20, MethodUSDTBEP20:
		return true
	}
	return false
}

// Family returns the chain family serving this method.
func (m PaymentMethod) Family() ChainFamily {
	switch {
	case m.IsUTXO():
		return ChainUTXO
	case m.IsEVM():
		return ChainEVM
	case m.IsTron():
		return ChainTron
	default:
		return ChainSolana
	}
}

// Decimals returns the smallest-unit precision of the transferred asset:
// satoshi/litoshi 1e8, wei 1e18, sun and 6-decimal USDT ledgers 1e6,
// lamports 1e9.
func (m PaymentMethod) Decimals() int32 {
	switch m {
	case MethodNativeBTC, MethodNativeLTC:
		return 8
	case MethodNativeETH, MethodNativeBNB, MethodUSDTBEP20:
		return 18
	case MethodNativeTRX, MethodUSDTTRC20, MethodUSDTERC20:
		return 6
	case MethodNativeSOL:
		return 9
	}
	return 0
}

// Symbol returns the asset ticker for human-facing messages.
func (m PaymentMethod) Symbol() string {
	switch m {
	case MethodNativeETH:
		return "ETH"
	case MethodNativeBNB:
		return "BNB"
	case MethodNativeTRX:
		return "TRX"
	case MethodNativeBTC:
		return "BTC"
	case MethodNativeLTC:
		return "LTC"
	case MethodNativeSOL:
		return "SOL"
	case MethodUSDTTRC20, MethodUSDTERC20, MethodUSDTBEP20:
		return "USDT"
	}
	return string(m)
}

func (m PaymentMethod) String() string {
	return string(m)
}
