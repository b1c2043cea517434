package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/policy"
	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/utils"
)

var _ ChainAdapter = (*TronAdapter)(nil)

// TronAdapter verifies native TRX and USDT-TRC20 payments through the
// TronScan explorer API. TronScan reports token movements in a
// dedicated transfer list per transaction, so TRC20 amounts are fully
// verifiable unlike the other token chains.
type TronAdapter struct {
	baseURL      string
	usdtContract string
	httpClient   *http.Client
	log          logger.Logger
}

func NewTronAdapter(baseURL, usdtContract string, httpClient *http.Client, log logger.Logger) *TronAdapter {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TronAdapter{
		baseURL:      strings.TrimRight(baseURL, "/"),
		usdtContract: usdtContract,
		httpClient:   httpClient,
		log:          log,
	}
}

type tronTokenTransfer struct {
	FromAddress     string `json:"from_address"`
	ToAddress       string `json:"to_address"`
	ContractAddress string `json:"contract_address"`
	AmountStr       string `json:"amount_str"`
	Decimals        int32  `json:"decimals"`
}

type tronTransaction struct {
	Hash           string              `json:"hash"`
	Confirmed      bool                `json:"confirmed"`
	OwnerAddress   string              `json:"ownerAddress"`
	ToAddress      string              `json:"toAddress"`
	Amount         int64               `json:"amount"`
	Timestamp      int64               `json:"timestamp"`
	TRC20Transfers []tronTokenTransfer `json:"trc20TransferInfo"`
}

func (a *TronAdapter) FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	url := fmt.Sprintf("%s/transaction-info?hash=%s", a.baseURL, req.TransactionID)

	var tx tronTransaction
	if err := getJSON(ctx, a.httpClient, url, "Transaction not found", &tx); err != nil {
		return nil, err
	}

	// TronScan answers unknown hashes with 200 and an empty object.
	if tx.Hash == "" && tx.Timestamp == 0 {
		return nil, types.NewVerifyError(types.ReasonNotFound, "Transaction not found")
	}
	if !tx.Confirmed {
		return nil, types.NewVerifyError(types.ReasonUnconfirmed,
			"Transaction not yet confirmed (0 confirmations)")
	}

	if req.PaymentMethod.IsToken() {
		return a.normalizeToken(&tx, req)
	}
	return a.normalizeNative(&tx, req)
}

func (a *TronAdapter) normalizeToken(tx *tronTransaction, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	sawContract := false
	for _, transfer := range tx.TRC20Transfers {
		if !policy.MatchesContract(transfer.ContractAddress, a.usdtContract) {
			continue
		}
		sawContract = true
		if !strings.EqualFold(transfer.ToAddress, req.DestinationWallet) {
			continue
		}
		decimals := transfer.Decimals
		if decimals == 0 {
			decimals = req.PaymentMethod.Decimals()
		}
		amount, err := utils.FromSmallestUnitString(transfer.AmountStr, decimals)
		if err != nil {
			return nil, types.NewVerifyError(types.ReasonNetworkError,
				"Malformed token amount in explorer response")
		}
		return &types.ChainTransaction{
			TxID:           tx.Hash,
			FromAddress:    transfer.FromAddress,
			ToAddress:      transfer.ToAddress,
			Amount:         amount,
			AssetDecimals:  decimals,
			Confirmed:      true,
			ChainSucceeded: true,
			BlockTimestamp: tx.Timestamp / 1000,
		}, nil
	}
	if sawContract {
		return nil, types.NewVerifyError(types.ReasonWalletMismatch,
			"No USDT transfer found to specified wallet")
	}
	return nil, types.NewVerifyError(types.ReasonTokenMismatch,
		"Transaction does not include a transfer of the expected token")
}

func (a *TronAdapter) normalizeNative(tx *tronTransaction, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	// Native Tron addresses are checksummed base58, compared verbatim.
	if !policy.MatchesWallet(tx.ToAddress, req.DestinationWallet) {
		return nil, types.NewVerifyError(types.ReasonWalletMismatch,
			"Transaction sent to different address")
	}
	decimals := req.PaymentMethod.Decimals()
	return &types.ChainTransaction{
		TxID:           tx.Hash,
		FromAddress:    tx.OwnerAddress,
		ToAddress:      tx.ToAddress,
		Amount:         utils.FromSmallestUnitInt(tx.Amount, decimals),
		AssetDecimals:  decimals,
		Confirmed:      true,
		ChainSucceeded: true,
		BlockTimestamp: tx.Timestamp / 1000,
	}, nil
}
