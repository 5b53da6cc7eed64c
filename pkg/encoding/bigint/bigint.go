package bigint

import (
	"math/big"

	"github.com/phantasma-io/phantasma-go/pkg/util"
)

// MaxBytesLen is the maximum length of a serialized integer accepted from
// event data.
const MaxBytesLen = 64

// FromBytesUnsigned converts data in little-endian format to an unsigned integer.
func FromBytesUnsigned(data []byte) *big.Int {
	return new(big.Int).SetBytes(util.ArrayReverse(data))
}

// FromBytes converts data in little-endian two's complement format to an
// integer. An empty slice is zero.
func FromBytes(data []byte) *big.Int {
	n := FromBytesUnsigned(data)
	if len(data) != 0 && data[len(data)-1]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(data))))
	}
	return n
}

// ToBytes converts an integer to the shortest little-endian two's complement
// slice. Zero is an empty slice.
func ToBytes(n *big.Int) []byte {
	sign := n.Sign()
	if sign == 0 {
		return []byte{}
	}
	m := new(big.Int).Set(n)
	x := m
	if sign < 0 {
		x = new(big.Int).Not(n)
	}
	size := x.BitLen()/8 + 1
	if sign < 0 {
		m.Add(m, new(big.Int).Lsh(big.NewInt(1), uint(8*size)))
	}
	data := make([]byte, size)
	m.FillBytes(data)
	return util.ArrayReverse(data)
}
