package crypto

import (
	"crypto/sha256"

	"github.com/pouria-shahmiri/weighted-mempool/pkg/types"
)

// DoubleSHA256 hashes data twice, guarding against length-extension attacks.
func DoubleSHA256(data []byte) types.Hash {
	firstHash := sha256.Sum256(data)
	secondHash := sha256.Sum256(firstHash[:])
	return secondHash
}

// HashTransaction computes a transaction id from its serialized form.
func HashTransaction(data []byte) types.Hash {
	return DoubleSHA256(data)
}

// HashOutput derives an output id from its owning transaction id and
// index within that transaction, in lieu of a chain-specific box-id rule.
func HashOutput(txID types.Hash, index uint32) types.Hash {
	buf := make([]byte, 0, 36)
	buf = append(buf, txID[:]...)
	buf = append(buf, byte(index>>24), byte(index>>16), byte(index>>8), byte(index))
	return DoubleSHA256(buf)
}
