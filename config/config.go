// Package config loads verifier configuration from an optional YAML
// file and VERIPAY_-prefixed environment variables, layered over
// built-in mainnet defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/veripay/veripay/types"
)

// Default public endpoints. All are unauthenticated mainnet services;
// override them for anything beyond light-duty verification.
const (
	DefaultBitcoinAPI  = "https://api.blockcypher.com/v1/btc/main"
	DefaultLitecoinAPI = "https://api.blockcypher.com/v1/ltc/main"
	DefaultEthereumRPC = "https://eth.public-rpc.com"
	DefaultBSCRPC      = "https://bsc-dataseed.binance.org"
	DefaultSolanaRPC   = "https://api.mainnet-beta.solana.com"
	DefaultTronAPI     = "https://apilist.tronscanapi.com/api"
)

// Canonical USDT contract addresses per chain.
const (
	DefaultUSDTTRC20Contract = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
	DefaultUSDTERC20Contract = "0xdac17f958d2ee523a2206206994597c13d831ec7"
	DefaultUSDTBEP20Contract = "0x55d398326f99059fF775485246999027B3197955"
)

// Load reads configuration from path (optional, empty skips the file),
// then applies VERIPAY_ environment overrides. Wallet addresses have no
// defaults; an empty wallet disables that payment method.
func Load(path string) (*types.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VERIPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("timeout", "30s")
	v.SetDefault("log_level", "info")

	v.SetDefault("endpoints.bitcoin_api", DefaultBitcoinAPI)
	v.SetDefault("endpoints.litecoin_api", DefaultLitecoinAPI)
	v.SetDefault("endpoints.ethereum_rpc", DefaultEthereumRPC)
	v.SetDefault("endpoints.bsc_rpc", DefaultBSCRPC)
	v.SetDefault("endpoints.solana_rpc", DefaultSolanaRPC)
	v.SetDefault("endpoints.tron_api", DefaultTronAPI)

	v.SetDefault("contracts.usdt_trc20", DefaultUSDTTRC20Contract)
	v.SetDefault("contracts.usdt_erc20", DefaultUSDTERC20Contract)
	v.SetDefault("contracts.usdt_bep20", DefaultUSDTBEP20Contract)

	for _, m := range types.Methods() {
		v.SetDefault(walletKey(m), "")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil {
		return nil, fmt.Errorf("parse timeout: %w", err)
	}

	cfg := &types.Config{
		Timeout:  timeout,
		LogLevel: v.GetString("log_level"),
		Endpoints: types.EndpointConfig{
			BitcoinAPI:  v.GetString("endpoints.bitcoin_api"),
			LitecoinAPI: v.GetString("endpoints.litecoin_api"),
			EthereumRPC: v.GetString("endpoints.ethereum_rpc"),
			BSCRPC:      v.GetString("endpoints.bsc_rpc"),
			SolanaRPC:   v.GetString("endpoints.solana_rpc"),
			TronAPI:     v.GetString("endpoints.tron_api"),
		},
		TokenContracts: map[types.PaymentMethod]string{
			types.MethodUSDTTRC20: v.GetString("contracts.usdt_trc20"),
			types.MethodUSDTERC20: v.GetString("contracts.usdt_erc20"),
			types.MethodUSDTBEP20: v.GetString("contracts.usdt_bep20"),
		},
		Wallets: make(map[types.PaymentMethod]string),
	}

	for _, m := range types.Methods() {
		if wallet := v.GetString(walletKey(m)); wallet != "" {
			cfg.Wallets[m] = wallet
		}
	}

	return cfg, nil
}

// walletKey maps a payment method to its config key, e.g. NATIVE_BTC
// becomes wallets.native_btc (env VERIPAY_WALLETS_NATIVE_BTC).
func walletKey(m types.PaymentMethod) string {
	return "wallets." + strings.ToLower(string(m))
}
