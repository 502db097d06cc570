package transaction

import (
	"fmt"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/crypto"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/keys"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/script"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/serialization"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// Builder helps construct fixture transactions for tests and demos. It
// never signs anything: signature checking is outside this repo's scope,
// so built transactions carry no unlocking proof.
type Builder struct {
	inputs  []types.TxInput
	outputs []types.TxOutput
}

// NewBuilder creates a new transaction builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddInput spends the given output id.
func (b *Builder) AddInput(outputID types.Hash) *Builder {
	b.inputs = append(b.inputs, types.TxInput{OutputID: outputID})
	return b
}

// AddOutput adds a raw output. OutputID is assigned by Build.
func (b *Builder) AddOutput(value uint64, propositionBytes []byte) *Builder {
	b.outputs = append(b.outputs, types.TxOutput{Value: value, PropositionBytes: propositionBytes})
	return b
}

// AddP2PKHOutput adds a Pay-to-PubKey-Hash output paying the given address.
func (b *Builder) AddP2PKHOutput(value uint64, address string) (*Builder, error) {
	addr, err := keys.DecodeAddress(address)
	if err != nil {
		return b, fmt.Errorf("invalid address: %w", err)
	}

	propositionBytes, err := script.P2PKH(addr.Hash())
	if err != nil {
		return b, fmt.Errorf("failed to build P2PKH proposition: %w", err)
	}

	return b.AddOutput(value, propositionBytes), nil
}

// Build computes output ids and the transaction id, and returns the
// finished transaction. size is recorded verbatim as SizeOrCost.
func (b *Builder) Build(size uint32) (*types.Transaction, error) {
	if len(b.inputs) == 0 {
		return nil, fmt.Errorf("transaction must have at least one input")
	}
	if len(b.outputs) == 0 {
		return nil, fmt.Errorf("transaction must have at least one output")
	}

	tx := &types.Transaction{
		Inputs:     b.inputs,
		Outputs:    b.outputs,
		SizeOrCost: size,
	}

	id, err := serialization.HashTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to hash transaction: %w", err)
	}
	tx.ID = id

	for i := range tx.Outputs {
		tx.Outputs[i].OutputID = crypto.HashOutput(id, uint32(i))
	}

	return tx, nil
}

// EstimateSize gives a rough byte-size estimate for a transaction shaped
// like numInputs inputs and numOutputs outputs, for fixtures that want a
// realistic SizeOrCost without building the real encoding.
func EstimateSize(numInputs, numOutputs int) uint32 {
	// 32 bytes per referenced output id, 32+8+~25 bytes per produced output.
	return uint32(4 + numInputs*32 + numOutputs*65)
}
