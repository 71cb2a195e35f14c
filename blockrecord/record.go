package blockrecord

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/hashingsystems/ptokens-core/common"
)

// BlockRecord couples a raw btc block with its height and the mint
// instructions derived from it. Created once per ingested block and
// never mutated; a re-ingestion writes a fresh record.
type BlockRecord struct {
	ID            chainhash.Hash
	Height        uint64
	Block         *wire.MsgBlock
	ExtraData     []byte
	MintingParams MintingParams
}

// serializedBlockRecord is the persisted envelope. Every field is a
// byte slice so sub-codecs stay independent of the envelope.
type serializedBlockRecord struct {
	ID            []byte `json:"id"`
	Block         []byte `json:"block"`
	Height        []byte `json:"height"`
	ExtraData     []byte `json:"extra_data"`
	MintingParams []byte `json:"minting_params"`
}

// New builds the record for a freshly processed block.
func New(
	id chainhash.Hash,
	height uint64,
	block *wire.MsgBlock,
	extraData []byte,
	mintingParams MintingParams,
) *BlockRecord {
	return &BlockRecord{
		ID:            id,
		Height:        height,
		Block:         block,
		ExtraData:     extraData,
		MintingParams: mintingParams,
	}
}

// Encode returns the persistence key (the block's own hash bytes) and
// the envelope payload.
func (r *BlockRecord) Encode() ([]byte, []byte, error) {
	var blockBuf bytes.Buffer
	if err := r.Block.Serialize(&blockBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize block: %w", err)
	}

	encodedParams, err := EncodeMintingParams(r.MintingParams)
	if err != nil {
		return nil, nil, fmt.Errorf("encode minting params: %w", err)
	}

	payload, err := json.Marshal(&serializedBlockRecord{
		ID:            r.ID[:],
		Block:         blockBuf.Bytes(),
		Height:        common.U64ToBytes(r.Height),
		ExtraData:     r.ExtraData,
		MintingParams: encodedParams,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal block record: %w", err)
	}

	return r.ID[:], payload, nil
}

// Decode reverses Encode. Any sub-field that fails to parse makes the
// whole payload a CorruptRecord.
func Decode(payload []byte) (*BlockRecord, error) {
	var raw serializedBlockRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: envelope json: %v", ErrCorruptRecord, err)
	}

	id, err := chainhash.NewHash(raw.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: block id: %v", ErrCorruptRecord, err)
	}

	height, err := common.BytesToU64(raw.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: height: %v", ErrCorruptRecord, err)
	}

	block := &wire.MsgBlock{}
	if err := block.Deserialize(bytes.NewReader(raw.Block)); err != nil {
		return nil, fmt.Errorf("%w: raw block: %v", ErrCorruptRecord, err)
	}

	mintingParams, err := DecodeMintingParams(raw.MintingParams)
	if err != nil {
		return nil, err
	}

	return &BlockRecord{
		ID:            *id,
		Height:        height,
		Block:         block,
		ExtraData:     raw.ExtraData,
		MintingParams: mintingParams,
	}, nil
}
