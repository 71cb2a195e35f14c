// Package chainstate tracks, per chain, the four named block pointers
// (latest, canon, anchor, tail) and the finality-depth policy that
// moves them. State lives in a byte-keyed store so the tracker itself
// stays stateless between calls.
package chainstate

import "github.com/ethereum/go-ethereum/crypto"

// Chain tags whose pointer set a key belongs to. The two chains'
// pointer sets are fully independent; no cross-chain atomicity exists
// or is needed.
type Chain uint8

const (
	ChainBtc Chain = iota
	ChainEth
)

func (c Chain) String() string {
	switch c {
	case ChainBtc:
		return "btc"
	case ChainEth:
		return "eth"
	default:
		return "unknown"
	}
}

// Pointer names one of the four tracked blocks.
type Pointer uint8

const (
	PointerLatest Pointer = iota
	PointerCanon
	PointerAnchor
	PointerTail
)

func (p Pointer) String() string {
	switch p {
	case PointerLatest:
		return "latest"
	case PointerCanon:
		return "canon"
	case PointerAnchor:
		return "anchor"
	case PointerTail:
		return "tail"
	default:
		return "unknown"
	}
}

// Db keys are keccak digests of stable names, per chain.

func pointerHashKey(c Chain, p Pointer) []byte {
	return crypto.Keccak256([]byte(c.String() + "-" + p.String() + "-block-hash"))
}

func pointerHeightKey(c Chain, p Pointer) []byte {
	return crypto.Keccak256([]byte(c.String() + "-" + p.String() + "-block-height"))
}

func canonToTipLengthKey(c Chain) []byte {
	return crypto.Keccak256([]byte(c.String() + "-canon-to-tip-length"))
}

func tailLengthKey(c Chain) []byte {
	return crypto.Keccak256([]byte(c.String() + "-tail-length"))
}
