// Package otp implements a one-time-pad cipher keyed by sifted protocol
// bits. The pad is only as secure as its discipline: key material must be
// random and must never key more than one message.
package otp

import (
	"errors"
	"fmt"

	"github.com/entanglab/e91/e91/bitseq"
)

// ErrShortKey indicates that the key material packs to fewer bytes than the
// message needs.
var ErrShortKey = errors.New("one-time pad key shorter than message")

// Pack groups key bits into 8-bit big-endian bytes in arrival order. Trailing
// bits beyond a multiple of 8 are dropped: a partial byte cannot pad a whole
// message byte.
func Pack(key bitseq.Dense) []byte {
	return key.Data()[:key.Size()/8]
}

// Encrypt XORs msg against the packed key prefix. It fails with ErrShortKey
// if key holds fewer than 8*len(msg) usable bits.
func Encrypt(msg []byte, key bitseq.Dense) ([]byte, error) {
	pad := Pack(key)
	if len(pad) < len(msg) {
		return nil, fmt.Errorf("%w: need %d bits, have %d usable",
			ErrShortKey, 8*len(msg), 8*len(pad))
	}
	out := make([]byte, len(msg))
	for i := range msg {
		out[i] = msg[i] ^ pad[i]
	}
	return out, nil
}

// Decrypt recovers the message from ciphertext produced by Encrypt with the
// same key. The pad is its own inverse, so this is the same XOR.
func Decrypt(ciphertext []byte, key bitseq.Dense) ([]byte, error) {
	msg, err := Encrypt(ciphertext, key)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return msg, nil
}
