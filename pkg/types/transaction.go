package types

// TxInput references a previously produced output that this transaction
// spends. A Transaction carries no other information about where the
// value came from: the mempool locates the owning transaction, if any,
// purely through OutputID.
type TxInput struct {
	OutputID Hash // the output id this input consumes
}

// TxOutput is a value produced by a transaction.
type TxOutput struct {
	OutputID         Hash   // this output's own id
	Value            uint64 // amount, in the chain's smallest unit
	PropositionBytes []byte // the spending condition, as opaque bytes
}

// Transaction is an unconfirmed state transition: it consumes the
// outputs referenced by Inputs and produces Outputs. Validation,
// signature checking, and persistence are all the responsibility of
// callers outside this package; Transaction is a plain value object.
type Transaction struct {
	ID         Hash
	Inputs     []TxInput
	Outputs    []TxOutput
	SizeOrCost uint32 // size in bytes, or execution cost, depending on the chain
}

// UnconfirmedTransaction wraps a Transaction with caller-owned metadata
// (e.g. receipt time, originating peer). The mempool never interprets
// Metadata; it only carries it alongside the Transaction so that a
// replacing Put can update it without touching the pool's indices.
type UnconfirmedTransaction struct {
	Transaction *Transaction
	Metadata    any
}

// ID is a convenience accessor matching Transaction.ID.
func (u *UnconfirmedTransaction) ID() Hash {
	return u.Transaction.ID
}
