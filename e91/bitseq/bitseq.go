// Package bitseq provides densely-packed bit sequences for key material.
package bitseq

import (
	"math/bits"
	"strings"
)

// A Dense is a bit sequence where every bit is explicitly represented. Bits
// are stored most-significant-first within each byte, so that the byte at
// index i of Data() is exactly bits [8i, 8i+8) read big-endian.
type Dense struct {
	bits []byte
	len  int
}

const blockSize = 8

// NewDense returns a new Dense whose data is a copy of data, and whose length
// is bitLen. If bitLen is longer than data, trailing zeros are added. If
// bitLen is negative, it is inferred from data.
func NewDense(data []byte, bitLen int) Dense {
	if bitLen < 0 {
		bitLen = len(data) * blockSize
	}
	b := make([]byte, blocksFor(bitLen))
	copy(b, data)
	d := Dense{bits: b, len: bitLen}
	d.clearTail()
	return d
}

// Empty returns an empty bit sequence.
func Empty() Dense {
	return Dense{}
}

// Size returns the number of bits in d.
func (d Dense) Size() int {
	return d.len
}

// ByteSize returns the number of bytes necessary to represent d.
func (d Dense) ByteSize() int {
	return blocksFor(d.len)
}

// Data returns a copy of the bytes underlying d. Unused trailing bits of the
// final byte are zero.
func (d Dense) Data() []byte {
	data := make([]byte, len(d.bits))
	copy(data, d.bits)
	return data
}

// Get returns the bit at idx. Indices past the end of d read as false.
func (d Dense) Get(idx int) bool {
	if idx < 0 || idx >= d.len {
		return false
	}
	return d.bits[idx/blockSize]&mask(idx) != 0
}

// AppendBit adds a single bit to the end of d.
func (d *Dense) AppendBit(bit bool) {
	if d.len%blockSize == 0 {
		d.bits = append(d.bits, 0)
	}
	if bit {
		d.bits[len(d.bits)-1] |= mask(d.len)
	}
	d.len++
}

// XOr computes a bitwise XOR between d and other. If one of the two is
// shorter than the other, trailing 0s are implicitly added to make the sizes
// match.
func (d Dense) XOr(other Dense) Dense {
	short, long := other, d
	if d.len < other.len {
		short, long = d, other
	}
	r := Dense{
		bits: make([]byte, 0, blocksFor(long.len)),
		len:  long.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, short.bits[i]^long.bits[i])
	}
	for j := len(short.bits); j < len(long.bits); j++ {
		r.bits = append(r.bits, long.bits[j]) // 0^v == v
	}
	return r
}

// CountOnes returns the total number of bits set in d.
func (d Dense) CountOnes() int {
	var sum int
	for _, b := range d.bits {
		sum += bits.OnesCount8(b)
	}
	return sum
}

// Prefix returns the first n bits of d as a copy. If n exceeds d's size, all
// of d is returned.
func (d Dense) Prefix(n int) Dense {
	if n >= d.len {
		n = d.len
	}
	r := Dense{
		bits: make([]byte, blocksFor(n)),
		len:  n,
	}
	copy(r.bits, d.bits[:blocksFor(n)])
	r.clearTail()
	return r
}

// String renders d as a string of '0' and '1' runes in bit order.
func (d Dense) String() string {
	var sb strings.Builder
	sb.Grow(d.len)
	for i := 0; i < d.len; i++ {
		if d.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// clearTail zeroes the unused bits of the final block, so that Data and XOr
// never expose stale bits past len.
func (d *Dense) clearTail() {
	if d.len%blockSize == 0 || len(d.bits) == 0 {
		return
	}
	d.bits[len(d.bits)-1] &= ^byte(0) << (blockSize - d.len%blockSize)
}

func mask(idx int) byte {
	return 1 << (blockSize - 1 - idx%blockSize)
}

func blocksFor(bits int) int {
	return (bits + blockSize - 1) / blockSize
}
