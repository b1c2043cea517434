package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veripay/veripay/types"
)

// stubAdapter returns a canned result and counts invocations.
type stubAdapter struct {
	tx    *types.ChainTransaction
	err   error
	calls int
}

func (s *stubAdapter) FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tx, nil
}

func request(method types.PaymentMethod) *types.VerificationRequest {
	return &types.VerificationRequest{
		TransactionID:     "0a6d2cfa9fd8b84f3ba486b4b5b8b0ef6a0a2e8c87db7a9940a5f1fbfd3ea412",
		PaymentMethod:     method,
		ExpectedAmount:    decimal.RequireFromString("49.99"),
		DestinationWallet: "TTSTe4V34whYwqz5SsY4wtKNnh3PuhAx4E",
	}
}

func TestVerifyHappyPath(t *testing.T) {
	adapter := &stubAdapter{tx: &types.ChainTransaction{
		TxID:           "tx",
		Amount:         decimal.RequireFromString("49.99"),
		Confirmed:      true,
		ChainSucceeded: true,
	}}

	svc := NewService(0, nil, nil)
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	verdict := svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
	require.True(t, verdict.Success)
	assert.Equal(t, types.ReasonVerified, verdict.ReasonCode)
	assert.Equal(t, "USDT payment verified successfully", verdict.Message)
	assert.Equal(t, 1, adapter.calls)
}

func TestVerifyIsIdempotent(t *testing.T) {
	adapter := &stubAdapter{tx: &types.ChainTransaction{
		Amount:         decimal.RequireFromString("49.99"),
		Confirmed:      true,
		ChainSucceeded: true,
	}}

	svc := NewService(0, nil, nil)
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	first := svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
	second := svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
	assert.Equal(t, first.ReasonCode, second.ReasonCode)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, 2, adapter.calls)
}

func TestVerifyUnsupportedMethodSkipsNetwork(t *testing.T) {
	adapter := &stubAdapter{}
	svc := NewService(0, nil, nil)
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	// NATIVE_BTC has no registered adapter here.
	verdict := svc.Verify(context.Background(), request(types.MethodNativeBTC))
	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonUnsupportedMethod, verdict.ReasonCode)
	assert.Zero(t, adapter.calls)
}

func TestVerifyInvalidRequest(t *testing.T) {
	svc := NewService(0, nil, nil)

	req := request(types.MethodUSDTTRC20)
	req.ExpectedAmount = decimal.Zero
	verdict := svc.Verify(context.Background(), req)
	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonInvalidRequest, verdict.ReasonCode)

	req = request(types.MethodUSDTTRC20)
	req.TransactionID = ""
	verdict = svc.Verify(context.Background(), req)
	assert.Equal(t, types.ReasonInvalidRequest, verdict.ReasonCode)

	verdict = svc.Verify(context.Background(), request("DOGE"))
	assert.Equal(t, types.ReasonUnsupportedMethod, verdict.ReasonCode)
}

func TestVerifyMalformedInputSkipsNetwork(t *testing.T) {
	adapter := &stubAdapter{}
	svc := NewService(0, nil, nil)
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	req := request(types.MethodUSDTTRC20)
	req.TransactionID = "totally-not-a-hash"
	verdict := svc.Verify(context.Background(), req)
	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonInvalidRequest, verdict.ReasonCode)
	assert.Zero(t, adapter.calls)

	req = request(types.MethodUSDTTRC20)
	req.DestinationWallet = "0xb971a4E8DCD38d87c4629642a4EAe2591ECd4772" // hex wallet on a Tron method
	verdict = svc.Verify(context.Background(), req)
	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonInvalidRequest, verdict.ReasonCode)
	assert.Zero(t, adapter.calls)
}

func TestVerifyMapsTypedErrors(t *testing.T) {
	for _, tc := range []struct {
		code    types.ReasonCode
		message string
	}{
		{types.ReasonNotFound, "Transaction not found"},
		{types.ReasonUnconfirmed, "Transaction not yet confirmed (0 confirmations)"},
		{types.ReasonChainExecutionFailed, "Transaction failed on blockchain"},
		{types.ReasonWalletMismatch, "Transaction sent to different address"},
		{types.ReasonTokenMismatch, "Unexpected token contract"},
	} {
		svc := NewService(0, nil, nil)
		adapter := &stubAdapter{err: types.NewVerifyError(tc.code, "%s", tc.message)}
		require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

		verdict := svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
		require.False(t, verdict.Success, tc.code)
		assert.Equal(t, tc.code, verdict.ReasonCode)
		assert.Equal(t, tc.message, verdict.Message)
	}
}

func TestVerifyMapsUnknownErrorsToNetwork(t *testing.T) {
	svc := NewService(0, nil, nil)
	adapter := &stubAdapter{err: errors.New("connection reset by peer")}
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	verdict := svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonNetworkError, verdict.ReasonCode)
	assert.Contains(t, verdict.Message, "connection reset by peer")
}

func TestVerifyTimeoutBecomesNetworkError(t *testing.T) {
	svc := NewService(0, nil, nil)
	adapter := &stubAdapter{err: context.DeadlineExceeded}
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	verdict := svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
	require.False(t, verdict.Success)
	assert.Equal(t, types.ReasonNetworkError, verdict.ReasonCode)
	assert.Equal(t, "Verification timed out", verdict.Message)
}

func TestVerifyAppliesDeadline(t *testing.T) {
	svc := NewService(50*time.Millisecond, nil, nil)
	adapter := &deadlineProbe{}
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, adapter))

	svc.Verify(context.Background(), request(types.MethodUSDTTRC20))
	require.True(t, adapter.hadDeadline)
	assert.LessOrEqual(t, time.Until(adapter.deadline), 50*time.Millisecond)
}

type deadlineProbe struct {
	hadDeadline bool
	deadline    time.Time
}

func (p *deadlineProbe) FetchTransaction(ctx context.Context, req *types.VerificationRequest) (*types.ChainTransaction, error) {
	p.deadline, p.hadDeadline = ctx.Deadline()
	return nil, types.NewVerifyError(types.ReasonNotFound, "Transaction not found")
}

func TestRegisterRejectsUnknownMethod(t *testing.T) {
	svc := NewService(0, nil, nil)
	assert.Error(t, svc.Register("DOGE", &stubAdapter{}))
}

func TestSupportedMethods(t *testing.T) {
	svc := NewService(0, nil, nil)
	require.NoError(t, svc.Register(types.MethodNativeBTC, &stubAdapter{}))
	require.NoError(t, svc.Register(types.MethodUSDTTRC20, &stubAdapter{}))

	methods := svc.SupportedMethods()
	assert.ElementsMatch(t, []types.PaymentMethod{types.MethodNativeBTC, types.MethodUSDTTRC20}, methods)
}
