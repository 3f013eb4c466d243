package ledger

import "fmt"

// Transfer is the payload of a transfer operation. From and To are
// binary-encoded account addresses; Amount is in e8s (10^-8 units).
type Transfer struct {
	From   []byte `json:"from"`
	To     []byte `json:"to"`
	Amount uint64 `json:"amount_e8s"`
}

// Operation wraps the optional operation of a transaction. Mints and burns
// carry no transfer payload and are not verification candidates.
type Operation struct {
	Transfer *Transfer `json:"transfer,omitempty"`
}

// Transaction is the ledger-recorded transaction inside a block. Memo is a
// caller-chosen 64-bit correlation tag.
type Transaction struct {
	Memo      uint64     `json:"memo"`
	Operation *Operation `json:"operation,omitempty"`
}

// Block is a single entry of the append-only ledger.
type Block struct {
	Transaction Transaction `json:"transaction"`
}

// TransferArgs is the argument shape of an outbound transfer.
type TransferArgs struct {
	Memo           uint64  `json:"memo"`
	AmountE8s      uint64  `json:"amount_e8s"`
	FeeE8s         uint64  `json:"fee_e8s"`
	FromSubaccount []byte  `json:"from_subaccount,omitempty"`
	To             []byte  `json:"to"`
	CreatedAtTime  *uint64 `json:"created_at_time,omitempty"`
}

// TransferError is a rejection reported by the ledger itself (insufficient
// funds, bad fee, duplicate, ...). The reason is opaque upstream detail and
// is not enumerated here. Transport failures are ordinary errors, not
// TransferErrors.
type TransferError struct {
	Reason string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("ledger rejected transfer: %s", e.Reason)
}
