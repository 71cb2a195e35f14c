// Enclave = btc side (block processor + UTXO vault) + eth side
// (pointer tracker + mint-path scalars) + key/value store + http
// reporter. All components are configured via a config file (strings!).

package cmd

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	logger "github.com/sirupsen/logrus"

	"github.com/hashingsystems/ptokens-core/btcsync"
	"github.com/hashingsystems/ptokens-core/btcvault"
	"github.com/hashingsystems/ptokens-core/chainstate"
	"github.com/hashingsystems/ptokens-core/common"
	"github.com/hashingsystems/ptokens-core/database"
	"github.com/hashingsystems/ptokens-core/ethsync"
	"github.com/hashingsystems/ptokens-core/reporter"
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type EnclaveConfig struct {
	// store side
	DbFilePath      string // bolt db file path (block records, pointers, scalars)
	VaultDbFilePath string // sqlite db file path (UTXO vault)

	// btc side
	BtcChainConfig   *chaincfg.Params // regtest, testnet, mainnet?
	EnclavePubKeyHex string           // compressed pubkey of the enclave key, hex
	BtcVaultAddress  string           // the P2PKH address the enclave key controls
	BtcAnchorHash    string           // anchor block hash, hex
	BtcAnchorHeight  uint64
	BtcCanonToTip    uint64
	BtcTailLength    uint64

	// eth side
	EthAnchorHash   string // anchor block hash, hex
	EthAnchorHeight uint64
	EthCanonToTip   uint64
	EthTailLength   uint64
	EthChainID      uint8
	EthGasPrice     uint64

	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080
}

// Enclave holds the objects that consists of the running enclave.
type Enclave struct {
	Store database.KeyValueStore

	// Btc side
	BtcTracker   *chainstate.Tracker
	VaultStorage btcvault.VaultUTXOStorage
	Vault        *btcvault.TreasureVault
	Processor    *btcsync.Processor

	// Eth side
	EthTracker *chainstate.Tracker

	// Http side
	Reporter *reporter.HttpReporter
}

// NewEnclave wires the components together. First run seeds both
// chains at their anchors; subsequent runs reuse the persisted
// pointers and refuse to re-seed.
func NewEnclave(ec *EnclaveConfig) (*Enclave, error) {
	store, err := database.OpenBoltStore(ec.DbFilePath)
	if err != nil {
		logger.Fatalf("cannot open store %s: %v", ec.DbFilePath, err)
		return nil, err
	}

	if err := btcsync.PutNetwork(store, ec.BtcChainConfig); err != nil {
		return nil, err
	}

	// 1) Create a <UTXO vault storage>
	vaultStorage, err := btcvault.NewVaultSQLiteStorage(ec.VaultDbFilePath, ec.BtcVaultAddress)
	if err != nil {
		logger.Fatalf("cannot create vault storage %v", err)
		return nil, err
	}
	vault := btcvault.NewTreasureVault(ec.BtcVaultAddress, vaultStorage)

	// 2) Seed the btc chain pointers (no-op after the first run)
	btcTracker := chainstate.NewTracker(chainstate.ChainBtc, store, &btcsync.RecordParentLookup{Store: store})
	btcAnchor, err := chainhash.NewHashFromStr(ec.BtcAnchorHash)
	if err != nil {
		return nil, fmt.Errorf("bad btc anchor hash: %w", err)
	}
	err = btcTracker.Initialize(*btcAnchor, ec.BtcAnchorHeight, chainstate.Config{
		CanonToTipLength: ec.BtcCanonToTip,
		TailLength:       ec.BtcTailLength,
	})
	if err != nil && err != chainstate.ErrAlreadyInitialized {
		return nil, err
	}

	// 3) Seed the eth chain pointers and mint-path scalars
	ethTracker := chainstate.NewTracker(chainstate.ChainEth, store, ethsync.NoParentLookup)
	ethAnchor, err := chainhash.NewHashFromStr(ec.EthAnchorHash)
	if err != nil {
		return nil, fmt.Errorf("bad eth anchor hash: %w", err)
	}
	err = ethsync.Initialize(store, ethTracker, *ethAnchor, ec.EthAnchorHeight, ethsync.Config{
		ChainID:  ec.EthChainID,
		GasPrice: ec.EthGasPrice,
		Pointers: chainstate.Config{
			CanonToTipLength: ec.EthCanonToTip,
			TailLength:       ec.EthTailLength,
		},
	})
	if err != nil && err != chainstate.ErrAlreadyInitialized {
		return nil, err
	}

	// 4) Create the per-block processor
	enclavePubKey := common.HexStrToByteSlice(ec.EnclavePubKeyHex)
	if len(enclavePubKey) == 0 {
		return nil, fmt.Errorf("bad enclave pubkey %q", ec.EnclavePubKeyHex)
	}
	processor := btcsync.NewProcessor(store, btcTracker, vault, enclavePubKey, ec.BtcChainConfig)

	// 5) Create the http reporter
	rep := reporter.NewHttpReporter(ec.HttpIp, ec.HttpPort, store, btcTracker, ethTracker, vault)

	return &Enclave{
		Store:        store,
		BtcTracker:   btcTracker,
		VaultStorage: vaultStorage,
		Vault:        vault,
		Processor:    processor,
		EthTracker:   ethTracker,
		Reporter:     rep,
	}, nil
}

// StartEnclaveAndWait runs the http reporter and blocks.
func StartEnclaveAndWait(ec *EnclaveConfig) {
	enclave, err := NewEnclave(ec)
	if err != nil {
		logger.Fatalf("cannot create enclave: %v", err)
		return
	}
	defer enclave.Store.Close()

	enclave.Reporter.Run()
}
