package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexStrRoundTrip(t *testing.T) {
	b := RandBytes(20)
	s := ByteSliceToPureHexStr(b)
	assert.True(t, CompareSlices(b, HexStrToByteSlice(s)))
	assert.True(t, CompareSlices(b, HexStrToByteSlice("0x"+s)))
}

func TestHexStrToBytes32(t *testing.T) {
	b := RandBytes32()
	s := ByteSliceToPureHexStr(b[:])
	assert.Equal(t, b, HexStrToBytes32(s))
	assert.Equal(t, b, HexStrToBytes32("0x"+s))
}

func TestBigIntHexStr(t *testing.T) {
	n := big.NewInt(1337)
	s := BigIntToHexStr(n)
	assert.Equal(t, "0x539", s)
	assert.Equal(t, n, HexStrToBigInt(s))

	assert.Nil(t, HexStrToBigInt("0xzz"))
}

func TestPrefixHelpers(t *testing.T) {
	assert.Equal(t, "abcd", Trim0xPrefix("0xabcd"))
	assert.Equal(t, "abcd", Trim0xPrefix("abcd"))
	assert.Equal(t, "0xabcd", Prepend0xPrefix("abcd"))
	assert.Equal(t, "0xabcd", Prepend0xPrefix("0xabcd"))
}
