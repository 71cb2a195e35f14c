package btcsync

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hashingsystems/ptokens-core/blockrecord"
	"github.com/hashingsystems/ptokens-core/chainstate"
	"github.com/hashingsystems/ptokens-core/database"
)

var networkKey = crypto.Keccak256([]byte("btc-network"))

// PutBlockRecord persists an encoded record under the block's own hash.
// Encoding happens before the single Put, so a failed encode leaves
// the store untouched.
func PutBlockRecord(store database.KeyValueStore, record *blockrecord.BlockRecord) error {
	key, payload, err := record.Encode()
	if err != nil {
		return err
	}
	return store.Put(key, payload)
}

// GetBlockRecord loads and decodes the record stored under hash.
func GetBlockRecord(store database.KeyValueStore, hash chainhash.Hash) (*blockrecord.BlockRecord, error) {
	payload, err := store.Get(hash[:])
	if err != nil {
		return nil, err
	}
	return blockrecord.Decode(payload)
}

// DeleteBlockRecord removes the record stored under hash.
func DeleteBlockRecord(store database.KeyValueStore, hash chainhash.Hash) error {
	return store.Delete(hash[:])
}

func PutNetwork(store database.KeyValueStore, cfg *chaincfg.Params) error {
	return store.Put(networkKey, blockrecord.NetworkToBytes(cfg))
}

// GetNetwork falls back to mainnet when the key is missing or holds an
// unrecognized value.
func GetNetwork(store database.KeyValueStore) (*chaincfg.Params, error) {
	b, err := store.Get(networkKey)
	if err == database.ErrNotFound {
		return &chaincfg.MainNetParams, nil
	}
	if err != nil {
		return nil, err
	}
	return blockrecord.NetworkFromBytes(b), nil
}

// RecordParentLookup resolves parent hashes from stored block records,
// backing the pointer tracker's walk-backs.
type RecordParentLookup struct {
	Store database.KeyValueStore
}

func (l *RecordParentLookup) Parent(hash chainhash.Hash) (chainhash.Hash, error) {
	record, err := GetBlockRecord(l.Store, hash)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return record.Block.Header.PrevBlock, nil
}

var _ chainstate.ParentLookup = (*RecordParentLookup)(nil)
