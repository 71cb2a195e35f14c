package btcvault

// VaultUTXO is one matched deposit output held for a later spend.
type VaultUTXO struct {
	BlockNumber     int64  // Block number (height)
	BlockHash       string // 64-character hexadecimal string (no 0x prefix)
	TxID            string // 64-character hexadecimal string (no 0x prefix)
	Vout            int32  // Output index
	Amount          int64  // Amount in satoshis
	PkScript        []byte // Locking script (needed when unlocking later)
	DepositInfoJSON []byte // Deposit metadata the output was matched under
	Spent           bool   // Spent status, default is false
}

// VaultUTXOStorage defines the interface for database operations on VaultUTXO
type VaultUTXOStorage interface {
	// InsertVaultUTXO inserts a new VaultUTXO into the database
	InsertVaultUTXO(utxo VaultUTXO) error

	// Select all UTXOs that are usable (not spent)
	QueryAllUsableUTXOs() ([]VaultUTXO, error)

	// QueryByBlockHash retrieves all VaultUTXOs with the specified block hash
	QueryByBlockHash(blockHash string) ([]VaultUTXO, error)

	// QueryByTxIDAndVout retrieves a VaultUTXO with the specified transaction ID and vout
	QueryByTxIDAndVout(txID string, vout int32) (*VaultUTXO, error)

	// Select enough unspent UTXOs to cover the specified amount
	QueryEnoughUTXOs(amount int64) ([]VaultUTXO, error)

	// SetSpent sets the spent status of a VaultUTXO identified by txID and vout
	SetSpent(txID string, vout int32, spent bool) error

	// SumMoney calculates the total amount of all unspent VaultUTXOs
	SumMoney() (int64, error)
}
