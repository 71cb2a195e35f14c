// Package ethsync seeds and advances the destination-chain side of the
// bridge: a pointer-only tracker (no UTXO filtering) plus the handful
// of scalar keys the mint path needs (chain id, gas price, account
// nonce).
package ethsync

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/crypto"
	logger "github.com/sirupsen/logrus"

	"github.com/hashingsystems/ptokens-core/chainstate"
	"github.com/hashingsystems/ptokens-core/common"
	"github.com/hashingsystems/ptokens-core/database"
)

var (
	chainIDKey      = crypto.Keccak256([]byte("eth-chain-id"))
	gasPriceKey     = crypto.Keccak256([]byte("eth-gas-price"))
	accountNonceKey = crypto.Keccak256([]byte("eth-account-nonce"))
)

// InitialAccountNonce is 1, not 0: the bridge setup transaction that
// deployed the token contract already consumed nonce 0.
const InitialAccountNonce uint64 = 1

// NoParentLookup backs a pointer-only tracker. Without a header source
// walk-backs cannot be answered; any lookup errors instead of
// dereferencing a nil capability.
var NoParentLookup = chainstate.ParentLookupFunc(
	func(hash chainhash.Hash) (chainhash.Hash, error) {
		return chainhash.Hash{}, errors.New("no parent lookup on pointer-only chain")
	},
)

type Config struct {
	ChainID  uint8
	GasPrice uint64
	Pointers chainstate.Config
}

// Initialize seeds the eth pointer set at the supplied anchor block
// and writes the mint-path scalars. Run once at bridge setup.
func Initialize(
	store database.KeyValueStore,
	tracker *chainstate.Tracker,
	anchor chainhash.Hash,
	anchorHeight uint64,
	cfg Config,
) error {
	if err := tracker.Initialize(anchor, anchorHeight, cfg.Pointers); err != nil {
		return err
	}

	if err := store.Put(chainIDKey, []byte{cfg.ChainID}); err != nil {
		return err
	}
	if err := store.Put(gasPriceKey, common.U64ToBytes(cfg.GasPrice)); err != nil {
		return err
	}
	if err := store.Put(accountNonceKey, common.U64ToBytes(InitialAccountNonce)); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"anchor":   anchor.String(),
		"height":   anchorHeight,
		"chainID":  cfg.ChainID,
		"gasPrice": cfg.GasPrice,
	}).Info("initialized eth chain state")
	return nil
}

func GetChainID(store database.KeyValueStore) (uint8, error) {
	b, err := store.Get(chainIDKey)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func GetGasPrice(store database.KeyValueStore) (uint64, error) {
	b, err := store.Get(gasPriceKey)
	if err != nil {
		return 0, err
	}
	return common.BytesToU64(b)
}

func PutGasPrice(store database.KeyValueStore, gasPrice uint64) error {
	return store.Put(gasPriceKey, common.U64ToBytes(gasPrice))
}

func GetAccountNonce(store database.KeyValueStore) (uint64, error) {
	b, err := store.Get(accountNonceKey)
	if err != nil {
		return 0, err
	}
	return common.BytesToU64(b)
}

// IncrementAccountNonce bumps the nonce after a mint tx has been
// handed off. Read-modify-write; callers serialize per chain.
func IncrementAccountNonce(store database.KeyValueStore) (uint64, error) {
	nonce, err := GetAccountNonce(store)
	if err != nil {
		return 0, err
	}
	next := nonce + 1
	if err := store.Put(accountNonceKey, common.U64ToBytes(next)); err != nil {
		return 0, err
	}
	return next, nil
}
