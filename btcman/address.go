// Package btcman holds the BTC-side primitives of the bridge: address
// codecs, locking/unlocking script construction and the unsigned
// transaction builder with its fee model.
package btcman

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrMalformedAddress covers any address that fails to decode.
var ErrMalformedAddress = errors.New("malformed btc address")

// AddressToBytes decodes a base58 btc address into its raw bytes
// (version byte + pubkey hash + checksum).
func AddressToBytes(address string) ([]byte, error) {
	decoded := base58.Decode(address)
	if len(decoded) == 0 {
		return nil, ErrMalformedAddress
	}
	return decoded, nil
}

// BytesToAddress is the converse of AddressToBytes.
func BytesToAddress(b []byte) string {
	return base58.Encode(b)
}

// AddressToPubKeyHash extracts the 20-byte pubkey hash from a base58
// btc address.
func AddressToPubKeyHash(address string) ([]byte, error) {
	decoded, err := AddressToBytes(address)
	if err != nil {
		return nil, err
	}
	if len(decoded) < 21 {
		return nil, ErrMalformedAddress
	}
	return decoded[1:21], nil
}

// IsValidAddress reports whether address parses for the given chain.
func IsValidAddress(address string, cfg *chaincfg.Params) bool {
	if _, err := btcutil.DecodeAddress(address, cfg); err != nil {
		return false
	}

	return true
}
