package clients

import (
	"context"
	"errors"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/utils"
)

var _ ChainAdapter = (*SolanaAdapter)(nil)

// SolanaAdapter verifies native SOL payments through a Solana JSON-RPC
// node. The received amount is recovered from the destination account's
// pre/post lamport balance delta rather than by decoding instructions,
// which keeps transfers inside arbitrary programs verifiable.
type SolanaAdapter struct {
	client *rpc.Client
	log    logger.Logger
}

func NewSolanaAdapter(rpcURL string, httpClient *http.Client, log logger.Logger) *SolanaAdapter {
	if log == nil {
		log = logger.NoopLogger{}
	}
	var client *rpc.Client
	if httpClient != nil {
		client = rpc.NewWithCustomRPCClient(jsonrpc.NewClientWithOpts(rpcURL, &jsonrpc.RPCClientOpts{
			HTTPClient: httpClient,
		}))
	} else {
		client = rpc.New(rpcURL)
	}
	return &SolanaAdapter{client: client, log: log}
}

func (a *SolanaAdapter) FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	sig, err := solana.SignatureFromBase58(req.TransactionID)
	if err != nil {
		return nil, types.NewVerifyError(types.ReasonNotFound, "Solana transaction not found")
	}

	maxVersion := uint64(0)
	out, err := a.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingJSON,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, types.NewVerifyError(types.ReasonNotFound, "Solana transaction not found")
		}
		return nil, types.WrapNetworkError("Failed to query Solana RPC", err)
	}
	if out == nil || out.Meta == nil {
		return nil, types.NewVerifyError(types.ReasonNotFound, "Solana transaction not found")
	}
	if out.Meta.Err != nil {
		return nil, types.NewVerifyError(types.ReasonChainExecutionFailed,
			"Solana transaction failed on blockchain")
	}

	decoded, err := out.Transaction.GetTransaction()
	if err != nil || decoded == nil {
		return nil, types.WrapNetworkError("Malformed Solana transaction payload", err)
	}

	// Balance arrays are indexed by the full account list: static keys
	// followed by addresses loaded from lookup tables.
	keys := decoded.Message.AccountKeys
	keys = append(keys, out.Meta.LoadedAddresses.Writable...)
	keys = append(keys, out.Meta.LoadedAddresses.ReadOnly...)

	walletIndex := -1
	for i, key := range keys {
		if key.String() == req.DestinationWallet {
			walletIndex = i
			break
		}
	}
	if walletIndex < 0 || walletIndex >= len(out.Meta.PreBalances) || walletIndex >= len(out.Meta.PostBalances) {
		return nil, types.NewVerifyError(types.ReasonWalletMismatch,
			"No transfer found to specified Solana address")
	}

	delta := int64(out.Meta.PostBalances[walletIndex]) - int64(out.Meta.PreBalances[walletIndex])
	if delta <= 0 {
		return nil, types.NewVerifyError(types.ReasonWalletMismatch,
			"No transfer found to specified Solana address")
	}

	fromAddress := ""
	if len(keys) > 0 {
		fromAddress = keys[0].String()
	}
	var blockTime int64
	if out.BlockTime != nil {
		blockTime = out.BlockTime.Time().Unix()
	}

	decimals := req.PaymentMethod.Decimals()
	normalized := &types.ChainTransaction{
		TxID:           req.TransactionID,
		FromAddress:    fromAddress,
		ToAddress:      req.DestinationWallet,
		Amount:         utils.FromSmallestUnitInt(delta, decimals),
		AssetDecimals:  decimals,
		Confirmed:      true,
		ChainSucceeded: true,
		BlockTimestamp: blockTime,
	}

	a.log.Debug("solana transaction normalized", map[string]any{
		"tx":     req.TransactionID,
		"amount": normalized.Amount.String(),
	})

	return normalized, nil
}
