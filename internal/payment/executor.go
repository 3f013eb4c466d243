package payment

import (
	"context"
	"errors"
	"fmt"

	"gymhub/internal/ledger"
	"gymhub/internal/principal"
)

var (
	ErrInvalidDestination = errors.New("invalid destination principal")
)

const (
	StatusCompleted = "completed"
	statusFailedFmt = "failed: %s"
)

// Executor issues outbound transfers on behalf of the service.
type Executor struct {
	ledger ledger.Client
}

func NewExecutor(client ledger.Client) *Executor {
	return &Executor{ledger: client}
}

// Pay sends amountE8s to the principal encoded in toText and returns a
// completed/failed status message. Ledger-side rejections become a
// "failed: <reason>" result, not an error; transport failures and a
// malformed destination are errors.
//
// The transfer fee is fetched fresh on every call because it can change
// between calls. The transfer carries memo 0, no subaccount scoping and the
// ledger's default created-at-time. There is no idempotency key: calling Pay
// twice with the same arguments issues two real transfers.
func (e *Executor) Pay(ctx context.Context, toText string, amountE8s uint64) (string, error) {
	to, err := principal.FromText(toText)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDestination, toText)
	}
	toAddr := principal.AccountID(to, principal.DefaultSubaccount)

	fee, err := e.ledger.TransferFee(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch transfer fee: %w", err)
	}

	_, err = e.ledger.Transfer(ctx, ledger.TransferArgs{
		Memo:      0,
		AmountE8s: amountE8s,
		FeeE8s:    fee,
		To:        toAddr.Bytes(),
	})
	if err != nil {
		var te *ledger.TransferError
		if errors.As(err, &te) {
			return fmt.Sprintf(statusFailedFmt, te.Reason), nil
		}
		return "", fmt.Errorf("submit transfer: %w", err)
	}

	return StatusCompleted, nil
}
