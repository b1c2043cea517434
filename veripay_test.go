package veripay

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/types"
)

func testConfig() *types.Config {
	return &types.Config{
		Wallets: map[types.PaymentMethod]string{
			types.MethodNativeTRX: "TTSTe4V34whYwqz5SsY4wtKNnh3PuhAx4E",
		},
		TokenContracts: map[types.PaymentMethod]string{
			types.MethodUSDTTRC20: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
			types.MethodUSDTERC20: "0xdac17f958d2ee523a2206206994597c13d831ec7",
			types.MethodUSDTBEP20: "0x55d398326f99059fF775485246999027B3197955",
		},
		Endpoints: types.EndpointConfig{
			BitcoinAPI:  "https://btc.invalid",
			LitecoinAPI: "https://ltc.invalid",
			EthereumRPC: "https://eth.invalid",
			BSCRPC:      "https://bsc.invalid",
			SolanaRPC:   "https://sol.invalid",
			TronAPI:     "https://tron.invalid",
		},
		Timeout: 5 * time.Second,
	}
}

func TestNewRegistersAllMethods(t *testing.T) {
	v, err := New(testConfig(), WithLogger(logger.NoopLogger{}))
	require.NoError(t, err)
	defer v.Close()

	assert.ElementsMatch(t, types.Methods(), v.SupportedMethods())
}

func TestNewSkipsUnconfiguredEndpoints(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoints = types.EndpointConfig{TronAPI: "https://tron.invalid"}

	v, err := New(cfg, WithLogger(logger.NoopLogger{}))
	require.NoError(t, err)
	defer v.Close()

	assert.ElementsMatch(t,
		[]types.PaymentMethod{types.MethodNativeTRX, types.MethodUSDTTRC20},
		v.SupportedMethods())
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestVerifyPaymentWithoutConfiguredWallet(t *testing.T) {
	v, err := New(testConfig(), WithLogger(logger.NoopLogger{}))
	require.NoError(t, err)
	defer v.Close()

	verdict := v.VerifyPayment(context.Background(),
		"0a6d2cfa9fd8b84f3ba486b4b5b8b0ef6a0a2e8c87db7a9940a5f1fbfd3ea412",
		types.MethodNativeBTC,
		decimal.RequireFromString("0.01"))

	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonInvalidRequest, verdict.ReasonCode)
	assert.Contains(t, verdict.Message, "no destination wallet configured")
}

func TestWithHTTPClientIsKeptByCaller(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}

	v, err := New(testConfig(), WithLogger(logger.NoopLogger{}), WithHTTPClient(hc))
	require.NoError(t, err)
	v.Close()

	assert.Same(t, hc, v.httpClient)
	assert.False(t, v.ownsClient)
}
