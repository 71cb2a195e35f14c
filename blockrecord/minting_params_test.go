package blockrecord

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/hashingsystems/ptokens-core/common"
)

func sampleMintingParams() MintingParams {
	txHash := chainhash.DoubleHashH([]byte("some deposit tx"))
	return MintingParams{
		{
			Amount:               common.ConvertSatoshisToToken(1337),
			EthAddress:           ethcommon.HexToAddress("0xfedfe2616eb3661cb8fed2782f5f0cc91d59dcac"),
			OriginatingTxHash:    txHash,
			OriginatingTxAddress: "2MuSSVNBnDQAjQPpP4obf5AGCvjMxGCxXVy",
		},
	}
}

func TestMintingParamsRoundTrip(t *testing.T) {
	params := sampleMintingParams()

	b, err := EncodeMintingParams(params)
	assert.NoError(t, err)

	chk, err := DecodeMintingParams(b)
	assert.NoError(t, err)
	assert.Equal(t, params, chk)
}

func TestMintingParamsEncodedForm(t *testing.T) {
	b, err := EncodeMintingParams(sampleMintingParams())
	assert.NoError(t, err)

	var raw []map[string]string
	assert.NoError(t, json.Unmarshal(b, &raw))
	assert.Len(t, raw, 1)
	// 1337 satoshis scaled to 18 decimals
	assert.Equal(t, "0xc28f219c400", raw[0]["amount"])
	assert.Equal(t, "0xfedfe2616eb3661cb8fed2782f5f0cc91d59dcac", raw[0]["eth_address"])
	assert.Equal(t, "2MuSSVNBnDQAjQPpP4obf5AGCvjMxGCxXVy", raw[0]["originating_tx_address"])
}

func TestMintingParamsEmptyList(t *testing.T) {
	b, err := EncodeMintingParams(nil)
	assert.NoError(t, err)

	chk, err := DecodeMintingParams(b)
	assert.NoError(t, err)
	assert.Empty(t, chk)
}

func TestDecodeMintingParamsCorrupt(t *testing.T) {
	_, err := DecodeMintingParams([]byte("not json"))
	assert.ErrorIs(t, err, ErrCorruptRecord)

	bad, err := json.Marshal([]mintingParamJSON{{
		Amount:               "0xzz",
		EthAddress:           "0xfedfe2616eb3661cb8fed2782f5f0cc91d59dcac",
		OriginatingTxHash:    chainhash.Hash{}.String(),
		OriginatingTxAddress: "addr",
	}})
	assert.NoError(t, err)
	_, err = DecodeMintingParams(bad)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	bad, err = json.Marshal([]mintingParamJSON{{
		Amount:               common.BigIntToHexStr(big.NewInt(1)),
		EthAddress:           "0xfedfe2616eb3661cb8fed2782f5f0cc91d59dcac",
		OriginatingTxHash:    "too-short",
		OriginatingTxAddress: "addr",
	}})
	assert.NoError(t, err)
	_, err = DecodeMintingParams(bad)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
