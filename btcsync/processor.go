/*
Package btcsync ingests parsed btc blocks one at a time: it rebuilds
the deposit registry for the block, filters out the genuine P2SH
deposits, derives their mint instructions, persists the block record
and advances the chain pointers. Block fetch and signing live outside;
this package only transforms already-fetched data.
*/
package btcsync

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"

	"github.com/hashingsystems/ptokens-core/blockrecord"
	"github.com/hashingsystems/ptokens-core/btcvault"
	"github.com/hashingsystems/ptokens-core/chainstate"
	"github.com/hashingsystems/ptokens-core/common"
	"github.com/hashingsystems/ptokens-core/database"
	"github.com/hashingsystems/ptokens-core/deposit"
)

// Processor runs the per-block pipeline. Strictly block-sequential:
// one block is fully processed before the next is accepted.
type Processor struct {
	store         database.KeyValueStore
	tracker       *chainstate.Tracker
	vault         *btcvault.TreasureVault // optional; nil disables UTXO capture
	enclavePubKey []byte
	chainCfg      *chaincfg.Params
}

// Result reports what one block ingestion produced.
type Result struct {
	Record      *blockrecord.BlockRecord
	Pointers    *chainstate.ApplyResult
	NumDeposits int
}

func NewProcessor(
	store database.KeyValueStore,
	tracker *chainstate.Tracker,
	vault *btcvault.TreasureVault,
	enclavePubKey []byte,
	chainCfg *chaincfg.Params,
) *Processor {
	return &Processor{
		store:         store,
		tracker:       tracker,
		vault:         vault,
		enclavePubKey: enclavePubKey,
		chainCfg:      chainCfg,
	}
}

// ProcessBlock ingests one block and its deposit metadata list. The
// first failing step aborts the block and leaves previously persisted
// state untouched; the caller may retry the whole block later.
func (p *Processor) ProcessBlock(
	block *wire.MsgBlock,
	height uint64,
	depositInfoList []deposit.Info,
) (*Result, error) {
	id := block.BlockHash()
	log := logger.WithFields(logger.Fields{
		"block":  id.String(),
		"height": height,
	})

	registry := deposit.BuildRegistry(depositInfoList)

	depositTxs := deposit.FilterDepositTxs(registry, p.enclavePubKey, block.Transactions, p.chainCfg)
	matched := deposit.ExtractMatchedOutputs(registry, p.enclavePubKey, depositTxs, p.chainCfg)

	record := blockrecord.New(id, height, block, nil, mintingParamsFromMatched(matched))
	if err := PutBlockRecord(p.store, record); err != nil {
		return nil, fmt.Errorf("persist block record: %w", err)
	}

	pointers, err := p.tracker.Apply(id, height)
	if err != nil {
		return nil, fmt.Errorf("advance pointers: %w", err)
	}

	if p.vault != nil {
		if err := p.captureUtxos(record, matched); err != nil {
			return nil, fmt.Errorf("capture utxos: %w", err)
		}
	}

	if pointers.TailMoved {
		p.pruneBelowTail(pointers)
	}

	log.WithFields(logger.Fields{
		"deposits":   len(matched),
		"canonMoved": pointers.CanonMoved,
	}).Info("processed btc block")

	return &Result{
		Record:      record,
		Pointers:    pointers,
		NumDeposits: len(matched),
	}, nil
}

// mintingParamsFromMatched converts each surviving deposit output into
// one mint instruction, amounts scaled from satoshis to token units. A
// deposit registered without a recipient mints to the safe address.
func mintingParamsFromMatched(matched []deposit.MatchedOutput) blockrecord.MintingParams {
	params := make(blockrecord.MintingParams, 0, len(matched))
	for _, m := range matched {
		recipient := m.Info.EthAddress
		if recipient == (ethcommon.Address{}) {
			logger.WithFields(logger.Fields{
				"tx":   m.Tx.TxHash().String(),
				"vout": m.OutputIndex,
			}).Warn("deposit has no recipient, minting to safe address")
			recipient = common.SafeEthAddress
		}
		params = append(params, blockrecord.MintingParam{
			Amount:               common.ConvertSatoshisToToken(m.Value),
			EthAddress:           recipient,
			OriginatingTxHash:    m.Tx.TxHash(),
			OriginatingTxAddress: m.Info.BtcDepositAddress,
		})
	}
	return params
}

// captureUtxos records every matched output in the vault for a later
// spend. Duplicate outputs (a re-ingested block) are skipped.
func (p *Processor) captureUtxos(record *blockrecord.BlockRecord, matched []deposit.MatchedOutput) error {
	for _, m := range matched {
		infoJSON := m.Info.ToJSON()
		encodedInfo, err := json.Marshal(&infoJSON)
		if err != nil {
			return err
		}

		txHash := m.Tx.TxHash()
		err = p.vault.AddUTXO(btcvault.VaultUTXO{
			BlockNumber:     int64(record.Height),
			BlockHash:       record.ID.String(),
			TxID:            txHash.String(),
			Vout:            int32(m.OutputIndex),
			Amount:          m.Tx.TxOut[m.OutputIndex].Value,
			PkScript:        m.Tx.TxOut[m.OutputIndex].PkScript,
			DepositInfoJSON: encodedInfo,
			Spent:           false,
		})
		if err != nil && !errors.Is(err, btcvault.ErrUTXOExists) {
			return err
		}
	}
	return nil
}

// pruneBelowTail garbage-collects block records strictly below the
// tail; the tail itself stays the oldest retained block. Pruning is
// best effort, a failure here never fails the block.
func (p *Processor) pruneBelowTail(pointers *chainstate.ApplyResult) {
	lookup := RecordParentLookup{Store: p.store}
	hash, err := lookup.Parent(pointers.Tail)
	if err != nil {
		return
	}
	for {
		record, err := GetBlockRecord(p.store, hash)
		if err != nil {
			return
		}
		if err := DeleteBlockRecord(p.store, hash); err != nil {
			logger.WithFields(logger.Fields{
				"block": hash.String(),
				"err":   err,
			}).Warn("failed to prune block record")
			return
		}
		hash = record.Block.Header.PrevBlock
	}
}
