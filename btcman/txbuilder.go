package btcman

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// DefaultTxInSequence is used on every input we build; the bridge
	// never uses relative locktimes.
	DefaultTxInSequence uint32 = 0xFFFFFFFF

	// P2SHScriptOverheadBytes is the extra per-input allowance for the
	// bridge's redeem script in the size estimate.
	P2SHScriptOverheadBytes = 0
)

// EstimateTxSize gives the deterministic byte size of a spend with the
// given shape. Assumes compressed keys, no multisig and no segwit; it
// is an estimate, not a measurement of a serialized tx.
func EstimateTxSize(numInputs, numOutputs int) uint64 {
	return uint64(numInputs*(148+P2SHScriptOverheadBytes) + numOutputs*34 + 10 + numInputs)
}

// EstimateTxFee prices a spend of the given shape at satsPerByte.
func EstimateTxFee(numInputs, numOutputs int, satsPerByte uint64) uint64 {
	return EstimateTxSize(numInputs, numOutputs) * satsPerByte
}

// NewTxOutput pairs a value in satoshis with a locking script.
func NewTxOutput(value int64, script []byte) *wire.TxOut {
	return wire.NewTxOut(value, script)
}

// NewPayToPubKeyHashOutput composes address decoding with output
// construction.
func NewPayToPubKeyHashOutput(value int64, recipient string) (*wire.TxOut, error) {
	script, err := PayToPubKeyHashScript(recipient)
	if err != nil {
		return nil, err
	}
	return NewTxOutput(value, script), nil
}

// UnsignedTxInFromTxOutput builds the input that will later spend the
// given output of tx. The output's locking script is parked in the
// signature-script slot until real signing replaces it. Witness stays
// empty; segwit spends are unsupported.
func UnsignedTxInFromTxOutput(tx *wire.MsgTx, outputIndex uint32) *wire.TxIn {
	outpoint := wire.NewOutPoint(txHashPtr(tx), outputIndex)
	txIn := wire.NewTxIn(outpoint, nil, nil)
	txIn.SignatureScript = append([]byte(nil), tx.TxOut[outputIndex].PkScript...)
	txIn.Sequence = DefaultTxInSequence
	return txIn
}

func txHashPtr(tx *wire.MsgTx) *chainhash.Hash {
	h := tx.TxHash()
	return &h
}

// SerializeTxIn writes a TxIn in consensus form:
// outpoint (32-byte hash + u32le index) | varbytes script | u32le sequence.
func SerializeTxIn(txIn *wire.TxIn) []byte {
	var buf bytes.Buffer
	buf.Write(txIn.PreviousOutPoint.Hash[:])

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], txIn.PreviousOutPoint.Index)
	buf.Write(idx[:])

	_ = wire.WriteVarBytes(&buf, 0, txIn.SignatureScript)

	var seq [4]byte
	binary.LittleEndian.PutUint32(seq[:], txIn.Sequence)
	buf.Write(seq[:])

	return buf.Bytes()
}

// DeserializeTxIn reverses SerializeTxIn.
func DeserializeTxIn(b []byte) (*wire.TxIn, error) {
	r := bytes.NewReader(b)

	var hash chainhash.Hash
	if _, err := io.ReadFull(r, hash[:]); err != nil {
		return nil, fmt.Errorf("read outpoint hash: %w", err)
	}

	var idx [4]byte
	if _, err := io.ReadFull(r, idx[:]); err != nil {
		return nil, fmt.Errorf("read outpoint index: %w", err)
	}

	script, err := wire.ReadVarBytes(r, 0, wire.MaxMessagePayload, "signature script")
	if err != nil {
		return nil, fmt.Errorf("read signature script: %w", err)
	}

	var seq [4]byte
	if _, err := io.ReadFull(r, seq[:]); err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}

	txIn := wire.NewTxIn(
		wire.NewOutPoint(&hash, binary.LittleEndian.Uint32(idx[:])),
		script,
		nil,
	)
	txIn.Sequence = binary.LittleEndian.Uint32(seq[:])
	return txIn, nil
}
