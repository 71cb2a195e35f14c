// Package deposit implements the custody predicate of the bridge: the
// deterministic derivation of per-(nonce, eth address) deposit
// addresses bound to the enclave key, and the per-block filtering of
// transactions that genuinely pay into them.
package deposit

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/hashingsystems/ptokens-core/common"
)

// Info ties one derived deposit address to its destination account.
// Built fresh per block from the node's deposit address list; never
// persisted.
type Info struct {
	Nonce                  uint64
	EthAddress             ethcommon.Address
	EthAddressAndNonceHash chainhash.Hash
	BtcDepositAddress      string
}

// InfoJSON is the external form of Info. Hex fields carry no 0x prefix.
type InfoJSON struct {
	Nonce                  uint64 `json:"nonce"`
	BtcDepositAddress      string `json:"btc_deposit_address"`
	EthAddress             string `json:"eth_address"`
	EthAddressAndNonceHash string `json:"eth_address_and_nonce_hash"`
}

// DerivationHash commits to the (destination address, nonce) pair:
// double-SHA256(ethAddress || u64le nonce).
func DerivationHash(nonce uint64, ethAddress ethcommon.Address) chainhash.Hash {
	preimage := append(ethAddress.Bytes(), common.U64ToBytes(nonce)...)
	return chainhash.DoubleHashH(preimage)
}

// NewInfo derives the commitment hash and records the deposit address
// it is claimed to belong to. Whether the address really matches is
// VerifyLocked's job.
func NewInfo(nonce uint64, ethAddress ethcommon.Address, btcDepositAddress string) Info {
	return Info{
		Nonce:                  nonce,
		EthAddress:             ethAddress,
		EthAddressAndNonceHash: DerivationHash(nonce, ethAddress),
		BtcDepositAddress:      btcDepositAddress,
	}
}

func (i *Info) ToJSON() InfoJSON {
	return InfoJSON{
		Nonce:                  i.Nonce,
		BtcDepositAddress:      i.BtcDepositAddress,
		EthAddress:             common.ByteSliceToPureHexStr(i.EthAddress.Bytes()),
		EthAddressAndNonceHash: common.ByteSliceToPureHexStr(i.EthAddressAndNonceHash[:]),
	}
}

func (j *InfoJSON) ToInfo() (Info, error) {
	hash, err := chainhash.NewHash(common.HexStrToByteSlice(j.EthAddressAndNonceHash))
	if err != nil {
		return Info{}, err
	}
	return Info{
		Nonce:                  j.Nonce,
		EthAddress:             ethcommon.HexToAddress(j.EthAddress),
		EthAddressAndNonceHash: *hash,
		BtcDepositAddress:      j.BtcDepositAddress,
	}, nil
}
