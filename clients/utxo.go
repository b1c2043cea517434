package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/policy"
	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/utils"
)

var _ ChainAdapter = (*UTXOAdapter)(nil)

// UTXOAdapter verifies Bitcoin-family payments through a
// BlockCypher-style explorer: one GET per transaction hash, then a scan
// of the output list for the destination wallet.
type UTXOAdapter struct {
	baseURL    string
	coinName   string
	httpClient *http.Client
	log        logger.Logger
}

// NewUTXOAdapter builds an adapter for one UTXO chain. baseURL is the
// explorer root, e.g. https://api.blockcypher.com/v1/btc/main.
func NewUTXOAdapter(baseURL, coinName string, httpClient *http.Client, log logger.Logger) *UTXOAdapter {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &UTXOAdapter{
		baseURL:    baseURL,
		coinName:   coinName,
		httpClient: httpClient,
		log:        log,
	}
}

type utxoOutput struct {
	Addresses []string `json:"addresses"`
	Value     int64    `json:"value"`
}

type utxoInput struct {
	Addresses []string `json:"addresses"`
}

type utxoTransaction struct {
	Hash          string       `json:"hash"`
	Confirmations int64        `json:"confirmations"`
	Confirmed     time.Time    `json:"confirmed"`
	Outputs       []utxoOutput `json:"outputs"`
	Inputs        []utxoInput  `json:"inputs"`
}

func (a *UTXOAdapter) FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	url := fmt.Sprintf("%s/txs/%s", a.baseURL, req.TransactionID)

	var tx utxoTransaction
	notFound := fmt.Sprintf("%s transaction not found", a.coinName)
	if err := getJSON(ctx, a.httpClient, url, notFound, &tx); err != nil {
		return nil, err
	}

	if tx.Confirmations < 1 {
		return nil, types.NewVerifyError(types.ReasonUnconfirmed,
			"Transaction not yet confirmed (0 confirmations)")
	}

	for _, out := range tx.Outputs {
		for _, addr := range out.Addresses {
			if !policy.MatchesWallet(addr, req.DestinationWallet) {
				continue
			}

			a.log.Debug("matched output for wallet", map[string]any{
				"tx":     req.TransactionID,
				"wallet": req.DestinationWallet,
				"value":  out.Value,
			})

			normalized := &types.ChainTransaction{
				TxID:           req.TransactionID,
				FromAddress:    firstInputAddress(tx.Inputs),
				ToAddress:      addr,
				Amount:         utils.FromSmallestUnitInt(out.Value, req.PaymentMethod.Decimals()),
				AssetDecimals:  req.PaymentMethod.Decimals(),
				Confirmed:      true,
				Confirmations:  tx.Confirmations,
				ChainSucceeded: true,
			}
			if !tx.Confirmed.IsZero() {
				normalized.BlockTimestamp = tx.Confirmed.Unix()
			}
			return normalized, nil
		}
	}

	return nil, types.NewVerifyError(types.ReasonWalletMismatch,
		"No payment found to specified %s address", a.coinName)
}

func firstInputAddress(inputs []utxoInput) string {
	for _, in := range inputs {
		if len(in.Addresses) > 0 {
			return in.Addresses[0]
		}
	}
	return ""
}
