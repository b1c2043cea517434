// Package verification dispatches verification requests to the chain
// adapter registered for the claimed payment method and turns adapter
// results into verdicts. Every failure mode is a verdict with a reason
// code; Verify never returns an error to the caller.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veripay/veripay/clients"
	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/metrics"
	"github.com/veripay/veripay/policy"
	"github.com/veripay/veripay/types"
	"github.com/veripay/veripay/utils"
)

// DefaultTimeout bounds one verification including all explorer and RPC
// round-trips when the caller's context carries no earlier deadline.
const DefaultTimeout = 30 * time.Second

// Service routes verification requests to per-method chain adapters.
// The adapter table is fixed after construction; Verify is safe for
// concurrent use.
type Service struct {
	adapters map[types.PaymentMethod]clients.ChainAdapter
	timeout  time.Duration
	log      logger.Logger
	metrics  metrics.Recorder
}

// NewService creates a dispatcher with an empty adapter table. A zero
// timeout selects DefaultTimeout; nil logger and recorder select noops.
func NewService(timeout time.Duration, log logger.Logger, rec metrics.Recorder) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{
		adapters: make(map[types.PaymentMethod]clients.ChainAdapter),
		timeout:  timeout,
		log:      log,
		metrics:  rec,
	}
}

// Register binds an adapter to a payment method. Registering twice for
// the same method replaces the earlier adapter.
func (s *Service) Register(method types.PaymentMethod, adapter clients.ChainAdapter) error {
	if !method.Supported() {
		return types.NewVerifyError(types.ReasonUnsupportedMethod,
			"unsupported payment method: %s", method)
	}
	s.adapters[method] = adapter
	return nil
}

// SupportedMethods lists the methods with a registered adapter.
func (s *Service) SupportedMethods() []types.PaymentMethod {
	methods := make([]types.PaymentMethod, 0, len(s.adapters))
	for _, m := range types.Methods() {
		if _, ok := s.adapters[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// Verify checks one claimed payment and always produces a verdict.
// Unsupported methods are rejected before any network call.
func (s *Service) Verify(ctx context.Context, req *types.VerificationRequest) *types.VerificationVerdict {
	start := time.Now()
	labels := map[string]string{"method": string(req.PaymentMethod)}

	verdict := s.verify(ctx, req)

	s.metrics.ObserveLatency("verify", time.Since(start), labels)
	s.metrics.IncCounter("verify_"+string(verdict.ReasonCode), labels)
	s.log.Info("verification completed", map[string]any{
		"tx":      req.TransactionID,
		"method":  string(req.PaymentMethod),
		"success": verdict.Success,
		"reason":  string(verdict.ReasonCode),
	})

	return verdict
}

func (s *Service) verify(ctx context.Context, req *types.VerificationRequest) *types.VerificationVerdict {
	if !req.PaymentMethod.Supported() {
		return types.Rejected(types.ReasonUnsupportedMethod,
			fmt.Sprintf("Unsupported payment method: %s", req.PaymentMethod))
	}
	if err := req.Validate(); err != nil {
		return types.Rejected(types.ReasonInvalidRequest,
			fmt.Sprintf("invalid request: %v", err))
	}

	// Shape checks keep garbage input off the network entirely.
	if err := utils.ValidateTransactionID(req.TransactionID, req.PaymentMethod); err != nil {
		return types.Rejected(types.ReasonInvalidRequest,
			fmt.Sprintf("invalid request: %v", err))
	}
	if err := utils.ValidateWalletAddress(req.DestinationWallet, req.PaymentMethod); err != nil {
		return types.Rejected(types.ReasonInvalidRequest,
			fmt.Sprintf("invalid request: %v", err))
	}

	adapter, ok := s.adapters[req.PaymentMethod]
	if !ok {
		return types.Rejected(types.ReasonUnsupportedMethod,
			fmt.Sprintf("Unsupported payment method: %s", req.PaymentMethod))
	}

	verifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := adapter.FetchTransaction(verifyCtx, req)
	if err != nil {
		return s.verdictFromError(req, err)
	}

	return policy.Evaluate(tx, req, policy.RuleFor(req.PaymentMethod))
}

// verdictFromError maps adapter errors onto rejection verdicts. Typed
// errors keep their reason code; everything else, including context
// expiry, is a network failure.
func (s *Service) verdictFromError(req *types.VerificationRequest, err error) *types.VerificationVerdict {
	var verr *types.VerifyError
	if errors.As(err, &verr) {
		if verr.Code == types.ReasonNetworkError {
			s.log.Warn("verification network failure", map[string]any{
				"tx":     req.TransactionID,
				"method": string(req.PaymentMethod),
				"error":  err.Error(),
			})
		}
		return types.Rejected(verr.Code, verr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.Rejected(types.ReasonNetworkError, "Verification timed out")
	}
	s.log.Warn("verification network failure", map[string]any{
		"tx":     req.TransactionID,
		"method": string(req.PaymentMethod),
		"error":  err.Error(),
	})
	return types.Rejected(types.ReasonNetworkError,
		fmt.Sprintf("Failed to query blockchain: %v", err))
}
