package btcsync

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"

	"github.com/hashingsystems/ptokens-core/blockrecord"
	"github.com/hashingsystems/ptokens-core/database"
)

// childBlock builds a minimal block on top of prev.
func childBlock(prev chainhash.Hash, nonce uint32) *wire.MsgBlock {
	merkle := chainhash.DoubleHashH([]byte("merkle"))
	block := wire.NewMsgBlock(wire.NewBlockHeader(1, &prev, &merkle, 0x1d00ffff, nonce))
	block.Header.Timestamp = time.Unix(1231006505, 0)

	tx := wire.NewMsgTx(wire.TxVersion)
	var outpoint chainhash.Hash
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&outpoint, 0), []byte{0x04}, nil))
	tx.AddTxOut(wire.NewTxOut(5000000000, []byte{0x51}))
	_ = block.AddTransaction(tx)
	return block
}

func TestBlockRecordStoreRoundTrip(t *testing.T) {
	store := database.NewMemoryStore()

	prev := chainhash.DoubleHashH([]byte("parent"))
	block := childBlock(prev, 7)
	record := blockrecord.New(block.BlockHash(), 42, block, nil, nil)

	assert.NoError(t, PutBlockRecord(store, record))

	chk, err := GetBlockRecord(store, block.BlockHash())
	assert.NoError(t, err)
	assert.Equal(t, record.ID, chk.ID)
	assert.Equal(t, record.Height, chk.Height)
	assert.Equal(t, block.BlockHash(), chk.Block.BlockHash())

	assert.NoError(t, DeleteBlockRecord(store, block.BlockHash()))
	_, err = GetBlockRecord(store, block.BlockHash())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestNetworkStore(t *testing.T) {
	store := database.NewMemoryStore()

	// missing key falls back to mainnet
	cfg, err := GetNetwork(store)
	assert.NoError(t, err)
	assert.Equal(t, &chaincfg.MainNetParams, cfg)

	assert.NoError(t, PutNetwork(store, &chaincfg.RegressionNetParams))
	cfg, err = GetNetwork(store)
	assert.NoError(t, err)
	assert.Equal(t, &chaincfg.RegressionNetParams, cfg)
}

func TestRecordParentLookup(t *testing.T) {
	store := database.NewMemoryStore()

	prev := chainhash.DoubleHashH([]byte("parent"))
	block := childBlock(prev, 7)
	assert.NoError(t, PutBlockRecord(store, blockrecord.New(block.BlockHash(), 42, block, nil, nil)))

	lookup := RecordParentLookup{Store: store}
	parent, err := lookup.Parent(block.BlockHash())
	assert.NoError(t, err)
	assert.Equal(t, prev, parent)

	_, err = lookup.Parent(prev)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
