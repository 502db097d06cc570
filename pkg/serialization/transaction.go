package serialization

import (
	"bytes"
	"io"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/crypto"
	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// SerializeTransaction encodes a transaction's inputs, outputs, and
// size_or_cost deterministically. The id itself is never part of the
// encoding — it is derived from this output, not contained in it.
func SerializeTransaction(tx *types.Transaction) ([]byte, error) {
	var buf bytes.Buffer

	if err := WriteVarInt(&buf, uint64(len(tx.Inputs))); err != nil {
		return nil, err
	}
	for _, input := range tx.Inputs {
		buf.Write(input.OutputID[:])
	}

	if err := WriteVarInt(&buf, uint64(len(tx.Outputs))); err != nil {
		return nil, err
	}
	for _, output := range tx.Outputs {
		buf.Write(output.OutputID[:])
		if err := WriteUint64(&buf, output.Value); err != nil {
			return nil, err
		}
		if err := WriteBytes(&buf, output.PropositionBytes); err != nil {
			return nil, err
		}
	}

	if err := WriteUint32(&buf, tx.SizeOrCost); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DeserializeTransaction reads the encoding produced by SerializeTransaction.
// The caller is responsible for assigning the resulting Transaction's ID.
func DeserializeTransaction(r io.Reader) (*types.Transaction, error) {
	var tx types.Transaction

	inputCount, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	tx.Inputs = make([]types.TxInput, inputCount)
	for i := uint64(0); i < inputCount; i++ {
		if _, err := io.ReadFull(r, tx.Inputs[i].OutputID[:]); err != nil {
			return nil, err
		}
	}

	outputCount, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	tx.Outputs = make([]types.TxOutput, outputCount)
	for i := uint64(0); i < outputCount; i++ {
		if _, err := io.ReadFull(r, tx.Outputs[i].OutputID[:]); err != nil {
			return nil, err
		}
		if tx.Outputs[i].Value, err = ReadUint64(r); err != nil {
			return nil, err
		}
		if tx.Outputs[i].PropositionBytes, err = ReadBytes(r); err != nil {
			return nil, err
		}
	}

	if tx.SizeOrCost, err = ReadUint32(r); err != nil {
		return nil, err
	}

	return &tx, nil
}

// HashTransaction computes the id a transaction would receive from its
// inputs, outputs, and size_or_cost.
func HashTransaction(tx *types.Transaction) (types.Hash, error) {
	serialized, err := SerializeTransaction(tx)
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.HashTransaction(serialized), nil
}
