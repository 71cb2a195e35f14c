package btcvault

import (
	"os"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/hashingsystems/ptokens-core/common"
)

func randFile() string {
	return "./" + ethcommon.Hash(common.RandBytes32()).String() + ".db"
}

func newVaultStorage(t *testing.T) (*VaultSQLiteStorage, func()) {
	file := randFile()
	storage, err := NewVaultSQLiteStorage(file, "testvault")
	assert.NoError(t, err)

	close := func() {
		os.Remove(file)
	}
	return storage, close
}

func randUTXO(blockNumber int64, amount int64, spent bool) VaultUTXO {
	return VaultUTXO{
		BlockNumber:     blockNumber,
		BlockHash:       common.ByteSliceToPureHexStr(common.RandBytes(32)),
		TxID:            common.ByteSliceToPureHexStr(common.RandBytes(32)),
		Vout:            0,
		Amount:          amount,
		PkScript:        common.RandBytes(25),
		DepositInfoJSON: []byte(`{"nonce":1}`),
		Spent:           spent,
	}
}

func TestInsertAndQueryUTXO(t *testing.T) {
	storage, close := newVaultStorage(t)
	defer close()

	utxo := randUTXO(100, 5000, false)
	assert.NoError(t, storage.InsertVaultUTXO(utxo))

	chk, err := storage.QueryByTxIDAndVout(utxo.TxID, utxo.Vout)
	assert.NoError(t, err)
	assert.NotNil(t, chk)
	assert.Equal(t, utxo, *chk)

	missing, err := storage.QueryByTxIDAndVout("no-such-tx", 0)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQueryByBlockHash(t *testing.T) {
	storage, close := newVaultStorage(t)
	defer close()

	utxo := randUTXO(100, 5000, false)
	assert.NoError(t, storage.InsertVaultUTXO(utxo))

	utxos, err := storage.QueryByBlockHash(utxo.BlockHash)
	assert.NoError(t, err)
	assert.Len(t, utxos, 1)
	assert.Equal(t, utxo, utxos[0])
}

func TestQueryAllUsableUTXOs(t *testing.T) {
	storage, close := newVaultStorage(t)
	defer close()

	assert.NoError(t, storage.InsertVaultUTXO(randUTXO(1, 100, false)))
	assert.NoError(t, storage.InsertVaultUTXO(randUTXO(2, 200, false)))
	assert.NoError(t, storage.InsertVaultUTXO(randUTXO(3, 300, true)))

	utxos, err := storage.QueryAllUsableUTXOs()
	assert.NoError(t, err)
	assert.Len(t, utxos, 2)
}

func TestQueryEnoughUTXOs(t *testing.T) {
	storage, close := newVaultStorage(t)
	defer close()

	assert.NoError(t, storage.InsertVaultUTXO(randUTXO(1, 100, false)))
	assert.NoError(t, storage.InsertVaultUTXO(randUTXO(2, 200, false)))
	assert.NoError(t, storage.InsertVaultUTXO(randUTXO(3, 300, false)))

	// largest first, one is enough
	utxos, err := storage.QueryEnoughUTXOs(250)
	assert.NoError(t, err)
	assert.Len(t, utxos, 1)
	assert.Equal(t, int64(300), utxos[0].Amount)

	// all three cannot cover it
	_, err = storage.QueryEnoughUTXOs(601)
	assert.Error(t, err)
}

func TestSetSpent(t *testing.T) {
	storage, close := newVaultStorage(t)
	defer close()

	utxo := randUTXO(1, 100, false)
	assert.NoError(t, storage.InsertVaultUTXO(utxo))
	assert.NoError(t, storage.SetSpent(utxo.TxID, utxo.Vout, true))

	chk, err := storage.QueryByTxIDAndVout(utxo.TxID, utxo.Vout)
	assert.NoError(t, err)
	assert.True(t, chk.Spent)
}

func TestTreasureVault(t *testing.T) {
	storage, close := newVaultStorage(t)
	defer close()

	vault := NewTreasureVault("some-btc-address", storage)

	utxo := randUTXO(1, 100, false)
	assert.NoError(t, vault.AddUTXO(utxo))

	// duplicates are rejected
	err := vault.AddUTXO(utxo)
	assert.ErrorIs(t, err, ErrUTXOExists)

	balance, err := vault.Balance()
	assert.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	chosen, err := vault.ChooseForSpend(50)
	assert.NoError(t, err)
	assert.Len(t, chosen, 1)

	assert.NoError(t, vault.MarkSpent(utxo.TxID, utxo.Vout))
	balance, err = vault.Balance()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	// spending an unknown utxo fails
	assert.Error(t, vault.MarkSpent("no-such-tx", 0))
}
