package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veripay/veripay/types"
)

const (
	ethWallet       = "0xb971a4E8DCD38d87c4629642a4EAe2591ECd4772"
	usdtEthContract = "0xdac17f958d2ee523a2206206994597c13d831ec7"
	ethTxHash       = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

// evmServer fakes a JSON-RPC node: each entry maps an RPC method to the
// raw JSON of its result field.
func evmServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))

		result, ok := results[call.Method]
		if !ok {
			result = "null"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, call.ID, result)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func ethRequest(method types.PaymentMethod, amount string) *types.VerificationRequest {
	return &types.VerificationRequest{
		TransactionID:     ethTxHash,
		PaymentMethod:     method,
		ExpectedAmount:    decimal.RequireFromString(amount),
		DestinationWallet: ethWallet,
	}
}

func txResult(to string, value string) string {
	return fmt.Sprintf(`{
		"hash": "%s",
		"from": "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23",
		"to": "%s",
		"value": "%s",
		"blockNumber": "0x5daf3b"
	}`, ethTxHash, to, value)
}

const successReceipt = `{"status": "0x1", "blockNumber": "0x5daf3b"}`

func newTestEVMAdapter(t *testing.T, srv *httptest.Server, contract string) *EVMAdapter {
	t.Helper()
	adapter, err := NewEVMAdapter(srv.URL, contract, srv.Client(), nil)
	require.NoError(t, err)
	t.Cleanup(adapter.Close)
	return adapter
}

func TestEVMFetchNativePayment(t *testing.T) {
	srv := evmServer(t, map[string]string{
		// 1.5 ETH in wei
		"eth_getTransactionByHash":  txResult(ethWallet, "0x14d1120d7b160000"),
		"eth_getTransactionReceipt": successReceipt,
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	tx, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodNativeETH, "1.5"))
	require.NoError(t, err)

	assert.Equal(t, "1.5", tx.Amount.String())
	assert.True(t, tx.ChainSucceeded)
	assert.True(t, tx.Confirmed)
}

func TestEVMFetchNotFound(t *testing.T) {
	srv := evmServer(t, map[string]string{"eth_getTransactionByHash": "null"})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	_, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodNativeETH, "1.5"))

	var verr *types.VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ReasonNotFound, verr.Code)
}

func TestEVMFetchPendingTransaction(t *testing.T) {
	srv := evmServer(t, map[string]string{
		"eth_getTransactionByHash":  txResult(ethWallet, "0x14d1120d7b160000"),
		"eth_getTransactionReceipt": "null",
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	_, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodNativeETH, "1.5"))

	var verr *types.VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ReasonUnconfirmed, verr.Code)
}

func TestEVMFetchRevertedTransaction(t *testing.T) {
	srv := evmServer(t, map[string]string{
		"eth_getTransactionByHash":  txResult(ethWallet, "0x14d1120d7b160000"),
		"eth_getTransactionReceipt": `{"status": "0x0", "blockNumber": "0x5daf3b"}`,
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	_, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodNativeETH, "1.5"))

	var verr *types.VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ReasonChainExecutionFailed, verr.Code)
	assert.Equal(t, "Transaction failed on blockchain", verr.Message)
}

func TestEVMFetchWalletMismatch(t *testing.T) {
	srv := evmServer(t, map[string]string{
		"eth_getTransactionByHash":  txResult("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", "0x14d1120d7b160000"),
		"eth_getTransactionReceipt": successReceipt,
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	_, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodNativeETH, "1.5"))

	var verr *types.VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ReasonWalletMismatch, verr.Code)
	assert.Equal(t, "Transaction sent to different address", verr.Message)
}

func TestEVMFetchWalletCaseInsensitive(t *testing.T) {
	srv := evmServer(t, map[string]string{
		"eth_getTransactionByHash":  txResult("0xB971A4E8DCD38D87C4629642A4EAE2591ECD4772", "0x14d1120d7b160000"),
		"eth_getTransactionReceipt": successReceipt,
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	tx, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodNativeETH, "1.5"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", tx.Amount.String())
}

func TestEVMFetchTokenTransfer(t *testing.T) {
	srv := evmServer(t, map[string]string{
		"eth_getTransactionByHash":  txResult(usdtEthContract, "0x0"),
		"eth_getTransactionReceipt": successReceipt,
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	tx, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodUSDTERC20, "49.99"))
	require.NoError(t, err)

	assert.Equal(t, "Token transfer confirmed - manual amount verification recommended", tx.Note)
	assert.True(t, tx.Amount.IsZero())
}

func TestEVMFetchTokenWrongContract(t *testing.T) {
	srv := evmServer(t, map[string]string{
		"eth_getTransactionByHash":  txResult("0x6B175474E89094C44Da98b954EedeAC495271d0F", "0x0"),
		"eth_getTransactionReceipt": successReceipt,
	})

	adapter := newTestEVMAdapter(t, srv, usdtEthContract)
	_, err := adapter.FetchTransaction(context.Background(), ethRequest(types.MethodUSDTERC20, "49.99"))

	var verr *types.VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ReasonTokenMismatch, verr.Code)
}
