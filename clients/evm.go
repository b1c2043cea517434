package clients

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/policy"
	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/utils"
)

// receiptStatusSuccess is the execution-status sentinel EVM receipts
// report for a successfully executed transaction.
const receiptStatusSuccess = 1

var _ ChainAdapter = (*EVMAdapter)(nil)

// EVMAdapter verifies native-coin and USDT-token payments on one
// account-based EVM chain (Ethereum or BSC). Two round-trips per check:
// eth_getTransactionByHash, then eth_getTransactionReceipt. Token
// transfers are confirmed without decoding the transfer event log, so
// their amount stays unverified and the verdict is advisory.
type EVMAdapter struct {
	rpc           *rpc.Client
	tokenContract string
	log           logger.Logger
}

// NewEVMAdapter dials the chain's JSON-RPC endpoint over the shared
// HTTP client. tokenContract is the USDT contract on this chain; empty
// disables the contract check on the token path.
func NewEVMAdapter(rpcURL, tokenContract string, httpClient *http.Client, log logger.Logger) (*EVMAdapter, error) {
	opts := []rpc.ClientOption{}
	if httpClient != nil {
		opts = append(opts, rpc.WithHTTPClient(httpClient))
	}
	client, err := rpc.DialOptions(context.Background(), rpcURL, opts...)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &EVMAdapter{rpc: client, tokenContract: tokenContract, log: log}, nil
}

// Close releases the underlying RPC connection.
func (a *EVMAdapter) Close() {
	a.rpc.Close()
}

type rpcTransaction struct {
	Hash        common.Hash     `json:"hash"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to"`
	Value       *hexutil.Big    `json:"value"`
	BlockNumber *hexutil.Big    `json:"blockNumber"`
}

type rpcReceipt struct {
	Status      hexutil.Uint64 `json:"status"`
	BlockNumber *hexutil.Big   `json:"blockNumber"`
}

func (a *EVMAdapter) FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	var tx *rpcTransaction
	if err := a.rpc.CallContext(ctx, &tx, "eth_getTransactionByHash", req.TransactionID); err != nil {
		return nil, types.WrapNetworkError("Failed to query blockchain", err)
	}
	if tx == nil {
		return nil, types.NewVerifyError(types.ReasonNotFound, "Transaction not found")
	}

	// Receipt absence means the transaction has not been mined yet.
	var receipt *rpcReceipt
	if err := a.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", req.TransactionID); err != nil {
		return nil, types.WrapNetworkError("Failed to query blockchain", err)
	}
	if receipt == nil {
		return nil, types.NewVerifyError(types.ReasonUnconfirmed, "Transaction not yet confirmed")
	}
	if uint64(receipt.Status) != receiptStatusSuccess {
		return nil, types.NewVerifyError(types.ReasonChainExecutionFailed, "Transaction failed on blockchain")
	}

	toAddress := ""
	if tx.To != nil {
		toAddress = tx.To.Hex()
	}

	decimals := req.PaymentMethod.Decimals()
	normalized := &types.ChainTransaction{
		TxID:           req.TransactionID,
		FromAddress:    tx.From.Hex(),
		ToAddress:      toAddress,
		AssetDecimals:  decimals,
		Confirmed:      true,
		ChainSucceeded: true,
	}

	if req.PaymentMethod.IsToken() {
		// The transaction's "to" is the token contract, not the wallet.
		if a.tokenContract != "" && !policy.MatchesContract(toAddress, a.tokenContract) {
			return nil, types.NewVerifyError(types.ReasonTokenMismatch,
				"Transaction does not interact with the expected token contract")
		}
		normalized.Note = "Token transfer confirmed - manual amount verification recommended"
		return normalized, nil
	}

	if !policy.MatchesWallet(toAddress, req.DestinationWallet) {
		return nil, types.NewVerifyError(types.ReasonWalletMismatch,
			"Transaction sent to different address")
	}

	if tx.Value != nil {
		normalized.Amount = utils.FromSmallestUnit(tx.Value.ToInt(), decimals)
	}

	a.log.Debug("evm transaction normalized", map[string]any{
		"tx":     req.TransactionID,
		"to":     toAddress,
		"amount": normalized.Amount.String(),
	})

	return normalized, nil
}
