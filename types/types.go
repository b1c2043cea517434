package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ReasonCode classifies the outcome of a verification. Every reachable
// input resolves to exactly one code; the set is closed.
type ReasonCode string

const (
	// Success outcomes
	ReasonVerified ReasonCode = "VERIFIED"
	// ReasonPartiallyVerified marks a payment confirmed on chain whose
	// transferred amount the adapter could not verify. Downstream
	// consumers may gate these behind manual review.
	ReasonPartiallyVerified ReasonCode = "PARTIALLY_VERIFIED"

	// Rejection outcomes
	ReasonNotFound             ReasonCode = "NOT_FOUND"
	ReasonUnconfirmed          ReasonCode = "UNCONFIRMED"
	ReasonChainExecutionFailed ReasonCode = "CHAIN_EXECUTION_FAILED"
	ReasonWalletMismatch       ReasonCode = "WALLET_MISMATCH"
	ReasonTokenMismatch        ReasonCode = "TOKEN_MISMATCH"
	ReasonAmountTooLow         ReasonCode = "AMOUNT_TOO_LOW"
	ReasonAmountMismatch       ReasonCode = "AMOUNT_MISMATCH"
	ReasonUnsupportedMethod    ReasonCode = "UNSUPPORTED_METHOD"
	ReasonNetworkError         ReasonCode = "NETWORK_ERROR"
	ReasonInvalidRequest       ReasonCode = "INVALID_REQUEST"
)

// VerificationRequest describes one claimed payment to check.
// Constructed per call, never mutated.
type VerificationRequest struct {
	// Transaction hash or signature as reported by the payer.
	TransactionID string `json:"transactionId" validate:"required"`

	// Payment rail the payer claims to have used.
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required"`

	// Invoiced amount in the asset's human unit.
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`

	// Wallet the payment must have been sent to, looked up by payment
	// method from the embedding application's configuration.
	DestinationWallet string `json:"destinationWallet" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request before any network call is issued.
func (r *VerificationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !r.PaymentMethod.Supported() {
		return fmt.Errorf("unsupported payment method: %s", r.PaymentMethod)
	}
	if !r.ExpectedAmount.IsPositive() {
		return fmt.Errorf("expectedAmount must be greater than 0")
	}
	return nil
}

// ChainTransaction is the normalized view of an on-chain transfer that a
// chain adapter produces. Amount is always in the asset's human unit;
// conversion from the smallest unit happens inside the adapter.
type ChainTransaction struct {
	TxID           string          `json:"txId"`
	FromAddress    string          `json:"fromAddress,omitempty"`
	ToAddress      string          `json:"toAddress"`
	Amount         decimal.Decimal `json:"amount"`
	AssetDecimals  int32           `json:"assetDecimals"`
	Confirmed      bool            `json:"confirmed"`
	Confirmations  int64           `json:"confirmations,omitempty"`
	BlockTimestamp int64           `json:"blockTimestamp,omitempty"`
	ChainSucceeded bool            `json:"chainSucceeded"`

	// Note carries an advisory for partially verified paths, e.g. token
	// transfers whose amount the adapter does not decode.
	Note string `json:"note,omitempty"`
}

// VerificationVerdict is the immutable result of one verification.
// The caller persists it; the library never retains it.
type VerificationVerdict struct {
	Success    bool              `json:"success"`
	ReasonCode ReasonCode        `json:"reasonCode"`
	Message    string            `json:"message"`
	Evidence   *ChainTransaction `json:"evidence,omitempty"`
}

// Rejected builds a failure verdict.
func Rejected(code ReasonCode, msg string) *VerificationVerdict {
	return &VerificationVerdict{Success: false, ReasonCode: code, Message: msg}
}

// Verified builds a fully verified success verdict.
func Verified(tx *ChainTransaction, msg string) *VerificationVerdict {
	return &VerificationVerdict{Success: true, ReasonCode: ReasonVerified, Message: msg, Evidence: tx}
}

// PartiallyVerified builds a success verdict whose amount was not checked
// on chain; tx.Note explains what remains unverified.
func PartiallyVerified(tx *ChainTransaction, msg string) *VerificationVerdict {
	return &VerificationVerdict{Success: true, ReasonCode: ReasonPartiallyVerified, Message: msg, Evidence: tx}
}

// VerifyError is the typed error chain adapters return. The dispatcher
// maps it onto a verdict; it never escapes to the caller.
type VerifyError struct {
	Code    ReasonCode
	Message string
	Cause   error
}

func (e *VerifyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *VerifyError) Unwrap() error {
	return e.Cause
}

// NewVerifyError builds a VerifyError without an underlying cause.
func NewVerifyError(code ReasonCode, format string, args ...any) *VerifyError {
	return &VerifyError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapNetworkError classifies a transport, timeout, or decoding failure.
// The cause is retained for logs; Message stays safe to display.
func WrapNetworkError(msg string, cause error) *VerifyError {
	return &VerifyError{Code: ReasonNetworkError, Message: msg, Cause: cause}
}

// EndpointConfig holds the public chain data sources each adapter queries.
type EndpointConfig struct {
	// BlockCypher-style explorer base URLs, fetched as {base}/txs/{hash}.
	BitcoinAPI  string `json:"bitcoinApi"`
	LitecoinAPI string `json:"litecoinApi"`

	// JSON-RPC endpoints.
	EthereumRPC string `json:"ethereumRpc"`
	BSCRPC      string `json:"bscRpc"`
	SolanaRPC   string `json:"solanaRpc"`

	// TronScan-style explorer base URL, fetched as
	// {base}/transaction-info?hash={hash}.
	TronAPI string `json:"tronApi"`
}

// Config wires wallets, token contracts, and endpoints into a Verifier.
// It is static for the process lifetime; no state is persisted. The
// config package populates it key by key; it is never unmarshalled
// directly from a config file.
type Config struct {
	// Wallets maps each payment method to the receiving address.
	Wallets map[PaymentMethod]string `json:"wallets"`

	// TokenContracts maps token methods to the token's on-chain
	// contract address.
	TokenContracts map[PaymentMethod]string `json:"tokenContracts"`

	Endpoints EndpointConfig `json:"endpoints"`

	// Timeout bounds every outbound call; zero means 30s.
	Timeout time.Duration `json:"timeout"`

	LogLevel string `json:"logLevel"`
}

// WalletFor returns the configured destination wallet for a method.
func (c *Config) WalletFor(m PaymentMethod) (string, bool) {
	w, ok := c.Wallets[m]
	return w, ok
}

// ContractFor returns the configured token contract for a token method.
func (c *Config) ContractFor(m PaymentMethod) (string, bool) {
	a, ok := c.TokenContracts[m]
	return a, ok
}
