package deposit

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	logger "github.com/sirupsen/logrus"
)

// MatchedOutput is one tx output that passed all three deposit checks.
type MatchedOutput struct {
	Tx          *wire.MsgTx
	OutputIndex uint32
	Value       uint64
	Info        Info
}

// outputP2SHAddress extracts the P2SH address of a tx output, or
// ok=false when the output is not script-hash typed or unparsable.
func outputP2SHAddress(txOut *wire.TxOut, cfg *chaincfg.Params) (string, bool) {
	class, addrs, _, err := txscript.ExtractPkScriptAddrs(txOut.PkScript, cfg)
	if err != nil || class != txscript.ScriptHashTy || len(addrs) != 1 {
		return "", false
	}
	return addrs[0].EncodeAddress(), true
}

// isOutputDeposit applies the three required checks to one output:
// P2SH-typed, address present in the registry, and address verifiably
// locked to the enclave key under the registered commitment hash.
func isOutputDeposit(
	txOut *wire.TxOut,
	registry Registry,
	enclavePubKey []byte,
	cfg *chaincfg.Params,
) (Info, bool) {
	address, ok := outputP2SHAddress(txOut, cfg)
	if !ok {
		return Info{}, false
	}

	info, ok := registry[address]
	if !ok {
		logger.WithField("address", address).Trace("output address not in registry")
		return Info{}, false
	}

	if !VerifyLocked(address, enclavePubKey, info.EthAddressAndNonceHash, cfg) {
		logger.WithField("address", address).Trace("output address not locked to enclave")
		return Info{}, false
	}

	return info, true
}

// FilterDepositTxs retains a transaction iff at least one of its
// outputs passes all three deposit checks. Other outputs of a retained
// tx are still examined individually by ExtractMatchedOutputs.
func FilterDepositTxs(
	registry Registry,
	enclavePubKey []byte,
	txs []*wire.MsgTx,
	cfg *chaincfg.Params,
) []*wire.MsgTx {
	var deposits []*wire.MsgTx
	for _, tx := range txs {
		for _, txOut := range tx.TxOut {
			if _, ok := isOutputDeposit(txOut, registry, enclavePubKey, cfg); ok {
				deposits = append(deposits, tx)
				break
			}
		}
	}
	logger.WithFields(logger.Fields{
		"in":  len(txs),
		"out": len(deposits),
	}).Debug("filtered p2sh deposit txs")
	return deposits
}

// ExtractMatchedOutputs walks every output of every tx and returns the
// ones that pass the deposit checks, in block order.
func ExtractMatchedOutputs(
	registry Registry,
	enclavePubKey []byte,
	txs []*wire.MsgTx,
	cfg *chaincfg.Params,
) []MatchedOutput {
	var matched []MatchedOutput
	for _, tx := range txs {
		for idx, txOut := range tx.TxOut {
			info, ok := isOutputDeposit(txOut, registry, enclavePubKey, cfg)
			if !ok {
				continue
			}
			matched = append(matched, MatchedOutput{
				Tx:          tx,
				OutputIndex: uint32(idx),
				Value:       uint64(txOut.Value),
				Info:        info,
			})
		}
	}
	return matched
}
