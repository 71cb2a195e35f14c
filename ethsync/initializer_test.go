package ethsync

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"

	"github.com/hashingsystems/ptokens-core/chainstate"
	"github.com/hashingsystems/ptokens-core/database"
)

func newInitialized(t *testing.T) (database.KeyValueStore, *chainstate.Tracker, chainhash.Hash) {
	store := database.NewMemoryStore()
	tracker := chainstate.NewTracker(chainstate.ChainEth, store, NoParentLookup)
	anchor := chainhash.DoubleHashH([]byte("eth anchor block"))

	err := Initialize(store, tracker, anchor, 9000000, Config{
		ChainID:  1,
		GasPrice: 20_000_000_000,
		Pointers: chainstate.Config{CanonToTipLength: 30, TailLength: 100},
	})
	assert.NoError(t, err)
	return store, tracker, anchor
}

func TestInitialize(t *testing.T) {
	store, tracker, anchor := newInitialized(t)

	for _, p := range []chainstate.Pointer{
		chainstate.PointerLatest,
		chainstate.PointerCanon,
		chainstate.PointerAnchor,
		chainstate.PointerTail,
	} {
		hash, height, err := tracker.Pointer(p)
		assert.NoError(t, err)
		assert.Equal(t, anchor, hash)
		assert.Equal(t, uint64(9000000), height)
	}

	chainID, err := GetChainID(store)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), chainID)

	gasPrice, err := GetGasPrice(store)
	assert.NoError(t, err)
	assert.Equal(t, uint64(20_000_000_000), gasPrice)

	nonce, err := GetAccountNonce(store)
	assert.NoError(t, err)
	assert.Equal(t, InitialAccountNonce, nonce)
}

func TestInitializeRefusesToRunTwice(t *testing.T) {
	store, tracker, anchor := newInitialized(t)

	err := Initialize(store, tracker, anchor, 9000000, Config{ChainID: 1})
	assert.ErrorIs(t, err, chainstate.ErrAlreadyInitialized)
}

func TestPointerOnlyTrackerFailsWalkBacksLoudly(t *testing.T) {
	store := database.NewMemoryStore()
	tracker := chainstate.NewTracker(chainstate.ChainEth, store, NoParentLookup)
	anchor := chainhash.DoubleHashH([]byte("eth anchor block"))

	err := tracker.Initialize(anchor, 0, chainstate.Config{CanonToTipLength: 1, TailLength: 1})
	assert.NoError(t, err)

	// a head far enough above canon forces a parent walk-back, which a
	// pointer-only chain cannot answer; it must error, not panic
	head := chainhash.DoubleHashH([]byte("eth head block"))
	_, err = tracker.Apply(head, 2)
	assert.Error(t, err)
}

func TestIncrementAccountNonce(t *testing.T) {
	store, _, _ := newInitialized(t)

	next, err := IncrementAccountNonce(store)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), next)

	nonce, err := GetAccountNonce(store)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), nonce)
}

func TestPutGasPrice(t *testing.T) {
	store, _, _ := newInitialized(t)

	assert.NoError(t, PutGasPrice(store, 42))
	gasPrice, err := GetGasPrice(store)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), gasPrice)
}
