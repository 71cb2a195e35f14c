package btcman

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"

	"github.com/hashingsystems/ptokens-core/common"
)

const testPubKeyHashHex = "54102783c8640c5144d039cea53eb7dbb4700814"

func testAddress(t *testing.T, cfg *chaincfg.Params) string {
	addr, err := btcutil.NewAddressPubKeyHash(common.HexStrToByteSlice(testPubKeyHashHex), cfg)
	assert.NoError(t, err)
	return addr.EncodeAddress()
}

func TestAddressRoundTrip(t *testing.T) {
	address := testAddress(t, &chaincfg.TestNet3Params)

	b, err := AddressToBytes(address)
	assert.NoError(t, err)
	// version byte + 20-byte hash + 4-byte checksum
	assert.Len(t, b, 25)
	assert.Equal(t, address, BytesToAddress(b))
}

func TestAddressToBytesMalformed(t *testing.T) {
	_, err := AddressToBytes("")
	assert.ErrorIs(t, err, ErrMalformedAddress)

	// 0, O, I and l are not in the base58 alphabet
	_, err = AddressToBytes("0OIl")
	assert.ErrorIs(t, err, ErrMalformedAddress)
}

func TestAddressToPubKeyHash(t *testing.T) {
	address := testAddress(t, &chaincfg.TestNet3Params)

	hash, err := AddressToPubKeyHash(address)
	assert.NoError(t, err)
	assert.Equal(t, testPubKeyHashHex, common.ByteSliceToPureHexStr(hash))

	// decodes fine but far too short to hold a pubkey hash
	_, err = AddressToPubKeyHash("abc")
	assert.ErrorIs(t, err, ErrMalformedAddress)
}

func TestIsValidAddress(t *testing.T) {
	testnet := testAddress(t, &chaincfg.TestNet3Params)
	assert.True(t, IsValidAddress(testnet, &chaincfg.TestNet3Params))
	assert.False(t, IsValidAddress("not-an-address", &chaincfg.TestNet3Params))
}
