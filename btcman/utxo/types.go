// Package utxo carries the spendable outputs the bridge has matched,
// between the block filter and the transaction builder.
package utxo

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/hashingsystems/ptokens-core/btcman"
)

// UtxoAndValue is one matched output awaiting spend. The TxIn inside is
// unsigned; its signature-script slot still carries the locking script
// it will spend.
type UtxoAndValue struct {
	Value          uint64
	SerializedUtxo []byte

	// MaybePointer links back to the block record the output came
	// from; nil when unknown.
	MaybePointer *chainhash.Hash

	// MaybeDepositInfoJSON carries the deposit metadata JSON for
	// P2SH deposit outputs; nil for plain outputs.
	MaybeDepositInfoJSON []byte
}

type UtxosAndValues []UtxoAndValue

// NewUtxoAndValueFromTxOutput captures output `outputIndex` of tx as an
// unsigned spendable.
func NewUtxoAndValueFromTxOutput(
	tx *wire.MsgTx,
	outputIndex uint32,
	maybePointer *chainhash.Hash,
	maybeDepositInfoJSON []byte,
) UtxoAndValue {
	return UtxoAndValue{
		Value:                uint64(tx.TxOut[outputIndex].Value),
		SerializedUtxo:       btcman.SerializeTxIn(btcman.UnsignedTxInFromTxOutput(tx, outputIndex)),
		MaybePointer:         maybePointer,
		MaybeDepositInfoJSON: maybeDepositInfoJSON,
	}
}

// TxIn decodes the serialized unsigned input back to wire form.
func (u *UtxoAndValue) TxIn() (*wire.TxIn, error) {
	return btcman.DeserializeTxIn(u.SerializedUtxo)
}

func (us UtxosAndValues) Sum() uint64 {
	var total uint64
	for _, u := range us {
		total += u.Value
	}
	return total
}
