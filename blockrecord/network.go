package blockrecord

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/hashingsystems/ptokens-core/common"
)

// The network identifier is persisted as an 8-byte integer:
// mainnet 0, testnet3 1, regtest 2.

func NetworkToBytes(cfg *chaincfg.Params) []byte {
	switch cfg.Net {
	case wire.TestNet3:
		return common.U64ToBytes(1)
	case wire.TestNet: // regtest
		return common.U64ToBytes(2)
	default:
		return common.U64ToBytes(0)
	}
}

// NetworkFromBytes maps 1 to testnet3 and 2 to regtest. Anything else,
// including corrupt or unrecognized bytes, falls back to mainnet
// silently.
func NetworkFromBytes(b []byte) *chaincfg.Params {
	n, err := common.BytesToU64(b)
	if err != nil {
		return &chaincfg.MainNetParams
	}
	switch n {
	case 1:
		return &chaincfg.TestNet3Params
	case 2:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}
