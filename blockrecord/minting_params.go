// Package blockrecord defines the canonical persisted form of an
// ingested btc block together with the mint instructions derived from
// it, plus the small codecs (minting params, network id) that travel
// with it.
package blockrecord

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/hashingsystems/ptokens-core/common"
)

// ErrCorruptRecord covers stored bytes that fail to parse back into a
// block record, minting params list or btc block.
var ErrCorruptRecord = errors.New("corrupt block record")

// MintingParam is one mint instruction: issue Amount (18-decimal) to
// EthAddress, traceable to the originating btc tx and deposit address.
// Immutable once created.
type MintingParam struct {
	Amount               *big.Int
	EthAddress           ethcommon.Address
	OriginatingTxHash    chainhash.Hash
	OriginatingTxAddress string
}

type MintingParams []MintingParam

type mintingParamJSON struct {
	Amount               string `json:"amount"`
	EthAddress           string `json:"eth_address"`
	OriginatingTxHash    string `json:"originating_tx_hash"`
	OriginatingTxAddress string `json:"originating_tx_address"`
}

// EncodeMintingParams serializes the list as a JSON array of objects.
// Amounts and eth addresses are 0x-prefixed hex, tx hashes are txid-form
// hex, btc addresses stay in their native text form.
func EncodeMintingParams(params MintingParams) ([]byte, error) {
	out := make([]mintingParamJSON, len(params))
	for i, p := range params {
		out[i] = mintingParamJSON{
			Amount:               common.BigIntToHexStr(p.Amount),
			EthAddress:           common.Prepend0xPrefix(common.ByteSliceToPureHexStr(p.EthAddress.Bytes())),
			OriginatingTxHash:    p.OriginatingTxHash.String(),
			OriginatingTxAddress: p.OriginatingTxAddress,
		}
	}
	return json.Marshal(out)
}

// DecodeMintingParams reverses EncodeMintingParams; any malformed
// field is a CorruptRecord.
func DecodeMintingParams(b []byte) (MintingParams, error) {
	var raw []mintingParamJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: minting params json: %v", ErrCorruptRecord, err)
	}

	params := make(MintingParams, len(raw))
	for i, r := range raw {
		amount := common.HexStrToBigInt(r.Amount)
		if amount == nil {
			return nil, fmt.Errorf("%w: minting param amount %q", ErrCorruptRecord, r.Amount)
		}
		txHash, err := chainhash.NewHashFromStr(r.OriginatingTxHash)
		if err != nil {
			return nil, fmt.Errorf("%w: originating tx hash: %v", ErrCorruptRecord, err)
		}
		params[i] = MintingParam{
			Amount:               amount,
			EthAddress:           ethcommon.HexToAddress(r.EthAddress),
			OriginatingTxHash:    *txHash,
			OriginatingTxAddress: r.OriginatingTxAddress,
		}
	}
	return params, nil
}
