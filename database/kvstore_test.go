package database

import (
	"os"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func randFile(suffix string) string {
	var b [32]byte
	copy(b[:], []byte(suffix))
	return "./" + ethcommon.Hash(b).String() + suffix
}

// exerciseStore runs the contract every KeyValueStore backend must
// honor: missing keys are ErrNotFound, puts overwrite, deletes are
// idempotent.
func exerciseStore(t *testing.T, store KeyValueStore) {
	key := []byte("some-key")

	_, err := store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Put(key, []byte("v1")))
	v, err := store.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	assert.NoError(t, store.Put(key, []byte("v2")))
	v, err = store.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	assert.NoError(t, store.Delete(key))
	_, err = store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, store.Delete(key))

	// an empty value is present, not missing
	assert.NoError(t, store.Put(key, []byte{}))
	v, err = store.Get(key)
	assert.NoError(t, err)
	assert.Empty(t, v)
	assert.NoError(t, store.Delete(key))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	exerciseStore(t, store)
	assert.Equal(t, 0, store.Len())
}

func TestBoltStore(t *testing.T) {
	file := randFile(".bolt.db")
	defer os.Remove(file)

	store, err := OpenBoltStore(file)
	assert.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSqliteStore(t *testing.T) {
	file := randFile(".sqlite.db")
	defer os.Remove(file)

	store, err := OpenSqliteStore(file)
	assert.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	value := []byte{1, 2, 3}
	assert.NoError(t, store.Put([]byte("k"), value))
	value[0] = 9

	chk, err := store.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, chk)
}
