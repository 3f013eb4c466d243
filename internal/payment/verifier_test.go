package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymhub/internal/ledger"
	"gymhub/internal/principal"
)

// MockLedger is a mock implementation of ledger.Client
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) QueryBlocks(ctx context.Context, start, length uint64) ([]ledger.Block, error) {
	args := m.Called(ctx, start, length)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Block), args.Error(1)
}

func (m *MockLedger) TransferFee(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, transferArgs ledger.TransferArgs) (uint64, error) {
	args := m.Called(ctx, transferArgs)
	return args.Get(0).(uint64), args.Error(1)
}

var (
	testCaller   = principal.FromBytes([]byte{0x01, 0x02, 0x03})
	testReceiver = principal.FromBytes([]byte{0x04, 0x05, 0x06})
	testOther    = principal.FromBytes([]byte{0x07, 0x08, 0x09})
)

func addr(p principal.Principal) []byte {
	return principal.AccountID(p, principal.DefaultSubaccount).Bytes()
}

func transferBlock(memo uint64, from, to []byte, amount uint64) ledger.Block {
	return ledger.Block{Transaction: ledger.Transaction{
		Memo: memo,
		Operation: &ledger.Operation{Transfer: &ledger.Transfer{
			From:   from,
			To:     to,
			Amount: amount,
		}},
	}}
}

func TestVerifier_Verify_Match(t *testing.T) {
	mockLedger := new(MockLedger)
	mockLedger.On("QueryBlocks", mock.Anything, uint64(5), uint64(1)).
		Return([]ledger.Block{transferBlock(42, addr(testCaller), addr(testReceiver), 1000)}, nil)

	verifier := NewVerifier(mockLedger)
	verified, err := verifier.Verify(context.Background(), testCaller, testReceiver, 1000, 5, 42)

	require.NoError(t, err)
	assert.True(t, verified)
	mockLedger.AssertExpectations(t)
}

func TestVerifier_Verify_SingleFieldMismatch(t *testing.T) {
	tests := []struct {
		name  string
		block ledger.Block
	}{
		{"wrong memo", transferBlock(43, addr(testCaller), addr(testReceiver), 1000)},
		{"wrong sender", transferBlock(42, addr(testOther), addr(testReceiver), 1000)},
		{"wrong receiver", transferBlock(42, addr(testCaller), addr(testOther), 1000)},
		{"wrong amount", transferBlock(42, addr(testCaller), addr(testReceiver), 999)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLedger := new(MockLedger)
			mockLedger.On("QueryBlocks", mock.Anything, uint64(5), uint64(1)).
				Return([]ledger.Block{tt.block}, nil)

			verifier := NewVerifier(mockLedger)
			verified, err := verifier.Verify(context.Background(), testCaller, testReceiver, 1000, 5, 42)

			require.NoError(t, err)
			assert.False(t, verified)
		})
	}
}

func TestVerifier_Verify_BlockBeyondLedgerIsFalseNotError(t *testing.T) {
	mockLedger := new(MockLedger)
	mockLedger.On("QueryBlocks", mock.Anything, uint64(100), uint64(1)).
		Return([]ledger.Block{}, nil)

	verifier := NewVerifier(mockLedger)
	verified, err := verifier.Verify(context.Background(), testCaller, testReceiver, 1000, 100, 42)

	require.NoError(t, err)
	assert.False(t, verified)
}

func TestVerifier_Verify_NonTransferBlockIsNoCandidate(t *testing.T) {
	tests := []struct {
		name string
		tx   ledger.Transaction
	}{
		{"no operation", ledger.Transaction{Memo: 42}},
		{"operation without transfer", ledger.Transaction{Memo: 42, Operation: &ledger.Operation{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLedger := new(MockLedger)
			mockLedger.On("QueryBlocks", mock.Anything, uint64(5), uint64(1)).
				Return([]ledger.Block{{Transaction: tt.tx}}, nil)

			verifier := NewVerifier(mockLedger)
			verified, err := verifier.Verify(context.Background(), testCaller, testReceiver, 1000, 5, 42)

			require.NoError(t, err)
			assert.False(t, verified)
		})
	}
}

func TestVerifier_Verify_LedgerUnreachablePropagates(t *testing.T) {
	mockLedger := new(MockLedger)
	mockLedger.On("QueryBlocks", mock.Anything, uint64(5), uint64(1)).
		Return(nil, errors.New("connection refused"))

	verifier := NewVerifier(mockLedger)
	verified, err := verifier.Verify(context.Background(), testCaller, testReceiver, 1000, 5, 42)

	assert.Error(t, err)
	assert.False(t, verified)
}

func TestVerifier_Verify_ScansWiderRanges(t *testing.T) {
	// Defensive scan: the match may sit anywhere in the returned set.
	mockLedger := new(MockLedger)
	mockLedger.On("QueryBlocks", mock.Anything, uint64(5), uint64(1)).
		Return([]ledger.Block{
			transferBlock(7, addr(testOther), addr(testReceiver), 50),
			transferBlock(42, addr(testCaller), addr(testReceiver), 1000),
		}, nil)

	verifier := NewVerifier(mockLedger)
	verified, err := verifier.Verify(context.Background(), testCaller, testReceiver, 1000, 5, 42)

	require.NoError(t, err)
	assert.True(t, verified)
}
