package common

import (
	"encoding/binary"
	"errors"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// All fixed-width integers in the db are 8 bytes, little-endian.

var ErrBadU64Width = errors.New("u64 encoding must be exactly 8 bytes")

// Satoshis carry 8 decimals, the host token carries 18.
var satoshiToTokenMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(10), nil)

// SafeEthAddress receives minted tokens whose intended recipient cannot
// be determined.
var SafeEthAddress = ethcommon.HexToAddress("0x71a440ee9fa7f99fb9a697e96ec7839b8a1643b8")

func U64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

func BytesToU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, ErrBadU64Width
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ConvertSatoshisToToken scales a satoshi amount up to the token's
// 18-decimal representation.
func ConvertSatoshisToToken(satoshis uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(satoshis), satoshiToTokenMultiplier)
}
