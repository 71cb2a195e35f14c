package blockrecord

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"

	"github.com/hashingsystems/ptokens-core/common"
)

func TestNetworkRoundTrip(t *testing.T) {
	for _, cfg := range []*chaincfg.Params{
		&chaincfg.MainNetParams,
		&chaincfg.TestNet3Params,
		&chaincfg.RegressionNetParams,
	} {
		assert.Equal(t, cfg, NetworkFromBytes(NetworkToBytes(cfg)))
	}
}

func TestNetworkEncoding(t *testing.T) {
	assert.Equal(t, common.U64ToBytes(0), NetworkToBytes(&chaincfg.MainNetParams))
	assert.Equal(t, common.U64ToBytes(1), NetworkToBytes(&chaincfg.TestNet3Params))
	assert.Equal(t, common.U64ToBytes(2), NetworkToBytes(&chaincfg.RegressionNetParams))
}

func TestNetworkFromBytesFallsBackToMainnet(t *testing.T) {
	// unknown id
	assert.Equal(t, &chaincfg.MainNetParams, NetworkFromBytes(common.U64ToBytes(42)))
	// wrong width
	assert.Equal(t, &chaincfg.MainNetParams, NetworkFromBytes([]byte{1}))
	assert.Equal(t, &chaincfg.MainNetParams, NetworkFromBytes(nil))
}
