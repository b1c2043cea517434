// Package veripay verifies claimed cryptocurrency payments against
// public blockchain explorers and RPC nodes. It supports native coin
// payments on Bitcoin, Litecoin, Ethereum, BSC, Tron and Solana plus
// USDT token payments on Tron, Ethereum and BSC, and reduces every
// check to a verdict with a stable reason code.
package veripay

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/veripay/veripay/clients"
	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/metrics"
	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/verification"
)

// Verifier is the top-level entry point. It owns one HTTP client shared
// by every chain adapter and a dispatch table keyed by payment method.
// Safe for concurrent use after New returns.
type Verifier struct {
	cfg        *types.Config
	service    *verification.Service
	httpClient *http.Client
	ownsClient bool
	log        logger.Logger
	closers    []interface{ Close() }
}

// New builds a Verifier from cfg, constructing one adapter per chain
// and registering it for every payment method it serves. Endpoints
// missing from cfg fall back to nothing; configure them via the config
// package or directly.
func New(cfg *types.Config, opts ...Option) (*Verifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = verification.DefaultTimeout
	}

	o := &options{timeout: timeout}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.NewZapLogger(cfg.LogLevel)
	}
	if o.metrics == nil {
		o.metrics = metrics.NoopRecorder{}
	}

	v := &Verifier{
		cfg:        cfg,
		httpClient: o.httpClient,
		log:        o.logger,
	}
	if v.httpClient == nil {
		v.httpClient = &http.Client{Timeout: o.timeout}
		v.ownsClient = true
	}

	v.service = verification.NewService(o.timeout, o.logger, o.metrics)

	if err := v.registerAdapters(); err != nil {
		v.Close()
		return nil, err
	}

	return v, nil
}

func (v *Verifier) registerAdapters() error {
	ep := v.cfg.Endpoints

	if ep.BitcoinAPI != "" {
		btc := clients.NewUTXOAdapter(ep.BitcoinAPI, "BTC", v.httpClient, v.log)
		if err := v.service.Register(types.MethodNativeBTC, btc); err != nil {
			return err
		}
	}
	if ep.LitecoinAPI != "" {
		ltc := clients.NewUTXOAdapter(ep.LitecoinAPI, "LTC", v.httpClient, v.log)
		if err := v.service.Register(types.MethodNativeLTC, ltc); err != nil {
			return err
		}
	}

	// One EVM adapter per chain serves both the native coin and the
	// USDT token method on that chain.
	if ep.EthereumRPC != "" {
		contract, _ := v.cfg.ContractFor(types.MethodUSDTERC20)
		eth, err := clients.NewEVMAdapter(ep.EthereumRPC, contract, v.httpClient, v.log)
		if err != nil {
			return fmt.Errorf("dial ethereum rpc: %w", err)
		}
		v.closers = append(v.closers, eth)
		if err := v.service.Register(types.MethodNativeETH, eth); err != nil {
			return err
		}
		if err := v.service.Register(types.MethodUSDTERC20, eth); err != nil {
			return err
		}
	}
	if ep.BSCRPC != "" {
		contract, _ := v.cfg.ContractFor(types.MethodUSDTBEP20)
		bsc, err := clients.NewEVMAdapter(ep.BSCRPC, contract, v.httpClient, v.log)
		if err != nil {
			return fmt.Errorf("dial bsc rpc: %w", err)
		}
		v.closers = append(v.closers, bsc)
		if err := v.service.Register(types.MethodNativeBNB, bsc); err != nil {
			return err
		}
		if err := v.service.Register(types.MethodUSDTBEP20, bsc); err != nil {
			return err
		}
	}

	if ep.TronAPI != "" {
		contract, _ := v.cfg.ContractFor(types.MethodUSDTTRC20)
		tron := clients.NewTronAdapter(ep.TronAPI, contract, v.httpClient, v.log)
		if err := v.service.Register(types.MethodNativeTRX, tron); err != nil {
			return err
		}
		if err := v.service.Register(types.MethodUSDTTRC20, tron); err != nil {
			return err
		}
	}

	if ep.SolanaRPC != "" {
		sol := clients.NewSolanaAdapter(ep.SolanaRPC, v.httpClient, v.log)
		if err := v.service.Register(types.MethodNativeSOL, sol); err != nil {
			return err
		}
	}

	return nil
}

// Verify checks one fully specified request and always returns a
// verdict, never an error.
func (v *Verifier) Verify(ctx context.Context, req *types.VerificationRequest) *types.VerificationVerdict {
	return v.service.Verify(ctx, req)
}

// VerifyPayment checks a claimed payment against the wallet configured
// for the payment method. This is the common entry point for order
// processing flows.
func (v *Verifier) VerifyPayment(ctx context.Context, transactionID string, method types.PaymentMethod, expectedAmount decimal.Decimal) *types.VerificationVerdict {
	wallet, ok := v.cfg.WalletFor(method)
	if !ok {
		return types.Rejected(types.ReasonInvalidRequest,
			fmt.Sprintf("no destination wallet configured for %s", method))
	}
	return v.Verify(ctx, &types.VerificationRequest{
		TransactionID:     transactionID,
		PaymentMethod:     method,
		ExpectedAmount:    expectedAmount,
		DestinationWallet: wallet,
	})
}

// SupportedMethods lists the payment methods with a working adapter.
func (v *Verifier) SupportedMethods() []types.PaymentMethod {
	return v.service.SupportedMethods()
}

// Close releases RPC connections and, when the Verifier created its own
// HTTP client, its idle connections.
func (v *Verifier) Close() {
	for _, c := range v.closers {
		c.Close()
	}
	if v.ownsClient && v.httpClient != nil {
		v.httpClient.CloseIdleConnections()
	}
}

// Version of the library.
const Version = "1.0.0"
