package btcvault

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUTXOExists is returned by AddUTXO for an already stored outpoint.
var ErrUTXOExists = errors.New("utxo already exists")

// TreasureVault stores the deposit UTXOs the enclave can spend.
type TreasureVault struct {
	EnclaveBtcAddress string           // the address family the money is locked under
	backend           VaultUTXOStorage // the backend engine
	updateMu          sync.Mutex       // prevent concurrent updates
}

// NewTreasureVault uses any backend that implements VaultUTXOStorage.
func NewTreasureVault(enclaveBtcAddress string, backend VaultUTXOStorage) *TreasureVault {
	return &TreasureVault{EnclaveBtcAddress: enclaveBtcAddress, backend: backend}
}

// AddUTXO adds a new UTXO to the treasure vault
// It returns an error if the UTXO already exists (won't insert duplicates)
func (tv *TreasureVault) AddUTXO(utxo VaultUTXO) error {
	tv.updateMu.Lock()
	defer tv.updateMu.Unlock()

	oldUtxo, err := tv.backend.QueryByTxIDAndVout(utxo.TxID, utxo.Vout)
	if err != nil {
		return err
	}
	// Don't duplicate insert!
	if oldUtxo != nil {
		return ErrUTXOExists
	}

	return tv.backend.InsertVaultUTXO(utxo)
}

// ChooseForSpend selects unspent UTXOs that sum to at least the target
// amount. The caller usually sizes the target to include the fee.
func (tv *TreasureVault) ChooseForSpend(targetAmount int64) ([]VaultUTXO, error) {
	return tv.backend.QueryEnoughUTXOs(targetAmount)
}

// MarkSpent flags a UTXO once its spending tx has been built and
// handed off for signing.
func (tv *TreasureVault) MarkSpent(txID string, vout int32) error {
	tv.updateMu.Lock()
	defer tv.updateMu.Unlock()

	utxo, err := tv.backend.QueryByTxIDAndVout(txID, vout)
	if err != nil {
		return err
	}
	if utxo == nil {
		return fmt.Errorf("utxo not found")
	}
	return tv.backend.SetSpent(txID, vout, true)
}

// Balance is the sum of all unspent UTXOs.
func (tv *TreasureVault) Balance() (int64, error) {
	return tv.backend.SumMoney()
}
