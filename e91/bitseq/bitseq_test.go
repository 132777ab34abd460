package bitseq

import (
	"bytes"
	"testing"
)

func fromBits(bits ...int) Dense {
	var d Dense
	for _, b := range bits {
		d.AppendBit(b == 1)
	}
	return d
}

func TestAppendAndData(t *testing.T) {
	tcs := []struct {
		name  string
		in    []int
		eout  []byte
		esize int
	}{
		{
			name:  "empty",
			eout:  []byte{},
			esize: 0,
		}, {
			name:  "one byte msb first",
			in:    []int{1, 0, 0, 0, 0, 0, 0, 1},
			eout:  []byte{0x81},
			esize: 8,
		}, {
			name:  "partial byte zero padded",
			in:    []int{1, 1},
			eout:  []byte{0b11000000},
			esize: 2,
		}, {
			name:  "ten bits",
			in:    []int{1, 0, 0, 0, 0, 0, 0, 1, 1, 1},
			eout:  []byte{0x81, 0b11000000},
			esize: 10,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			d := fromBits(tc.in...)
			if d.Size() != tc.esize {
				t.Errorf("got size %d, want %d", d.Size(), tc.esize)
			}
			if !bytes.Equal(d.Data(), tc.eout) {
				t.Errorf("got data %08b, want %08b", d.Data(), tc.eout)
			}
		})
	}
}

func TestNewDenseClearsTail(t *testing.T) {
	d := NewDense([]byte{0xFF}, 4)
	if got, want := d.Data()[0], byte(0xF0); got != want {
		t.Errorf("got data %08b, want %08b", got, want)
	}
	if got := d.CountOnes(); got != 4 {
		t.Errorf("got %d ones, want 4", got)
	}
}

func TestGet(t *testing.T) {
	d := NewDense([]byte{0b10100000}, 3)
	for i, want := range []bool{true, false, true} {
		if got := d.Get(i); got != want {
			t.Errorf("Get(%d) == %v, want %v", i, got, want)
		}
	}
	if d.Get(3) || d.Get(-1) || d.Get(100) {
		t.Errorf("out-of-range Get should read false")
	}
}

func TestXOr(t *testing.T) {
	tcs := []struct {
		name string
		a    Dense
		b    Dense
		eout Dense
	}{
		{
			name: "aligned",
			a:    NewDense([]byte{0b10100000}, 8),
			b:    NewDense([]byte{0b01100000}, 8),
			eout: NewDense([]byte{0b11000000}, 8),
		}, {
			name: "short a",
			a:    NewDense([]byte{0b10100000}, 8),
			b:    NewDense([]byte{0b01100000, 0b10000000}, 9),
			eout: NewDense([]byte{0b11000000, 0b10000000}, 9),
		}, {
			name: "short b",
			a:    NewDense([]byte{0b10100000, 0b10000000}, 9),
			b:    NewDense([]byte{0b01100000}, 8),
			eout: NewDense([]byte{0b11000000, 0b10000000}, 9),
		}, {
			name: "empty a",
			b:    NewDense([]byte{0b01100000}, 8),
			eout: NewDense([]byte{0b01100000}, 8),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.a.XOr(tc.b)
			if out.Size() != tc.eout.Size() {
				t.Errorf("got size %d, want %d", out.Size(), tc.eout.Size())
			}
			if !bytes.Equal(out.Data(), tc.eout.Data()) {
				t.Errorf("xor == %08b, want %08b", out.Data(), tc.eout.Data())
			}
		})
	}
}

func TestCountOnes(t *testing.T) {
	if got := fromBits(1, 0, 1, 1, 0, 0, 0, 0, 1).CountOnes(); got != 4 {
		t.Errorf("got %d ones, want 4", got)
	}
	if got := Empty().CountOnes(); got != 0 {
		t.Errorf("got %d ones for empty sequence, want 0", got)
	}
}

func TestPrefix(t *testing.T) {
	d := fromBits(1, 0, 1, 1, 0, 0, 0, 0, 1, 1)
	tcs := []struct {
		name string
		n    int
		eout string
	}{
		{name: "zero", n: 0, eout: ""},
		{name: "partial", n: 3, eout: "101"},
		{name: "full", n: 10, eout: "1011000011"},
		{name: "overlong", n: 64, eout: "1011000011"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Prefix(tc.n).String(); got != tc.eout {
				t.Errorf("Prefix(%d) == %q, want %q", tc.n, got, tc.eout)
			}
		})
	}
}
