package deposit

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	logger "github.com/sirupsen/logrus"
)

// RedeemScript builds the locking condition of a deposit address:
//
//	<ethAddressAndNonceHash> OP_DROP <enclavePubKey> OP_CHECKSIG
//
// The pushed hash earmarks funds for one (nonce, eth address) pair; the
// checksig binds spending to the enclave's key.
func RedeemScript(enclavePubKey []byte, ethAddressAndNonceHash chainhash.Hash) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddData(ethAddressAndNonceHash[:]).
		AddOp(txscript.OP_DROP).
		AddData(enclavePubKey).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// DepositAddress wraps a redeem script in the chain's P2SH address form.
func DepositAddress(redeemScript []byte, cfg *chaincfg.Params) (*btcutil.AddressScriptHash, error) {
	return btcutil.NewAddressScriptHash(redeemScript, cfg)
}

// DeriveDepositAddress composes RedeemScript and DepositAddress.
func DeriveDepositAddress(
	enclavePubKey []byte,
	ethAddressAndNonceHash chainhash.Hash,
	cfg *chaincfg.Params,
) (*btcutil.AddressScriptHash, error) {
	script, err := RedeemScript(enclavePubKey, ethAddressAndNonceHash)
	if err != nil {
		return nil, fmt.Errorf("build redeem script: %w", err)
	}
	return DepositAddress(script, cfg)
}

// P2SHScriptSig assembles the P2SH spend form:
// <signature> <serialized redeem script>.
func P2SHScriptSig(signature, redeemScript []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddData(signature).
		AddData(redeemScript).
		Script()
}

// VerifyLocked recomputes the deposit address from the enclave key and
// commitment hash and compares it with the candidate. This is a
// filtering predicate: any mismatch or recomputation failure is false,
// never an error.
func VerifyLocked(
	candidateAddress string,
	enclavePubKey []byte,
	ethAddressAndNonceHash chainhash.Hash,
	cfg *chaincfg.Params,
) bool {
	derived, err := DeriveDepositAddress(enclavePubKey, ethAddressAndNonceHash, cfg)
	if err != nil {
		logger.WithFields(logger.Fields{
			"candidate": candidateAddress,
			"err":       err,
		}).Debug("deposit address recomputation failed")
		return false
	}
	return derived.EncodeAddress() == candidateAddress
}
