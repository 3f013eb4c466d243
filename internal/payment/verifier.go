package payment

import (
	"context"
	"fmt"

	"gymhub/internal/ledger"
	"gymhub/internal/principal"
)

// Verifier checks asserted inbound payments against the append-only ledger.
type Verifier struct {
	ledger ledger.Client
}

func NewVerifier(client ledger.Client) *Verifier {
	return &Verifier{ledger: client}
}

// Verify reports whether the block at blockIndex records a transfer from the
// caller to receiver of exactly amountE8s, tagged with memo.
//
// A missing block (not yet committed, or index past the ledger tip) is a
// normal negative result: (false, nil). Only a failure to reach the ledger is
// an error; callers are expected to treat it as fatal for the request.
//
// The check only matches transfers FROM the calling principal: the
// transaction's from-address is compared against the caller's own account
// address, so a payment made by a third party never verifies.
func (v *Verifier) Verify(ctx context.Context, caller, receiver principal.Principal, amountE8s, blockIndex, memo uint64) (bool, error) {
	blocks, err := v.ledger.QueryBlocks(ctx, blockIndex, 1)
	if err != nil {
		return false, fmt.Errorf("query blocks at %d: %w", blockIndex, err)
	}
	if len(blocks) == 0 {
		return false, nil
	}

	senderAddr := principal.AccountID(caller, principal.DefaultSubaccount)
	receiverAddr := principal.AccountID(receiver, principal.DefaultSubaccount)

	// One block was requested, but scan whatever came back in case a wider
	// range is ever queried.
	for _, block := range blocks {
		tx := block.Transaction
		if tx.Operation == nil || tx.Operation.Transfer == nil {
			// Mint/burn; not a transfer candidate.
			continue
		}
		transfer := tx.Operation.Transfer

		if tx.Memo != memo {
			continue
		}
		// Addresses are matched by hash, not byte-wise; see principal.Hash64.
		if principal.Hash64(senderAddr.Bytes()) != principal.Hash64(transfer.From) {
			continue
		}
		if principal.Hash64(receiverAddr.Bytes()) != principal.Hash64(transfer.To) {
			continue
		}
		if transfer.Amount != amountE8s {
			continue
		}
		return true, nil
	}

	return false, nil
}
