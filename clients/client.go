// Package clients contains the chain adapters. Each adapter knows how
// to query one family of chains and normalize a raw transaction payload
// into a types.ChainTransaction; amount policy lives in package policy.
package clients

import (
	"context"

	"github.com/veripay/veripay/types"
)

// ChainAdapter is the single capability a chain family exposes to the
// dispatcher. Implementations return *types.VerifyError for every
// expected failure mode; any other error is treated as a network fault.
type ChainAdapter interface {
	FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error)
}
