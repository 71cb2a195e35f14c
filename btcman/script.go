package btcman

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// PayToPubKeyHashScript builds the standard P2PKH locking script for a
// base58 btc address:
// OP_DUP OP_HASH160 <pubKeyHash> OP_EQUALVERIFY OP_CHECKSIG
func PayToPubKeyHashScript(address string) ([]byte, error) {
	pubKeyHash, err := AddressToPubKeyHash(address)
	if err != nil {
		return nil, err
	}
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(pubKeyHash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	if err != nil {
		return nil, fmt.Errorf("build p2pkh script: %w", err)
	}
	return script, nil
}

// ScriptSig assembles the P2PKH spend form: <signature> <pubKey>.
func ScriptSig(signature, spenderPubKey []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddData(signature).
		AddData(spenderPubKey).
		Script()
}
