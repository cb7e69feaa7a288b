package hexutil

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		input   string
		want    []byte
		wantErr bool
	}{
		{"", []byte{}, false},
		{"00ff", []byte{0x00, 0xff}, false},
		{"0x5B", []byte{0x5b}, false},
		{"  6001\n", []byte{0x60, 0x01}, false},
		{"abc", nil, true},
		{"zz", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLen(t *testing.T) {
	require.Equal(t, 0, Len(""))
	require.Equal(t, 3, Len("5b6000"))
	require.Equal(t, "5b6000", Encode([]byte{0x5b, 0x60, 0x00}))
}

func TestFixedUint(t *testing.T) {
	b, err := FixedUint(0x33, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0x33}, b)

	b, err = FixedUint(192, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0xc0}, b)

	_, err = FixedUint(256, 1)
	require.Error(t, err)

	_, err = FixedUint(1, 0)
	require.Error(t, err)
}

func TestRandomHasNoZeroNibbles(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		b := Random(r, 29)
		require.Len(t, b, 29)
		for _, c := range b {
			require.NotZero(t, c&0x0f)
			require.NotZero(t, c&0xf0)
		}
	}
}

func TestLastRun(t *testing.T) {
	out := "\n======= tmp.yul (EVM) =======\n\nBinary representation:\n600a80600e\n"
	require.Equal(t, "600a80600e", LastRun(out))
	require.Equal(t, "", LastRun("   \n"))
}

func TestAfter(t *testing.T) {
	buf := []byte{0x01, 0xaa, 0xbb, 0x02, 0xaa, 0xbb, 0x03, 0x04}
	rest, ok := After(buf, []byte{0xaa, 0xbb})
	require.True(t, ok)
	require.Equal(t, []byte{0x03, 0x04}, rest)

	_, ok = After(buf, []byte{0xcc})
	require.False(t, ok)

	_, ok = After(buf, nil)
	require.False(t, ok)
}

func TestAfterIsByteAligned(t *testing.T) {
	// As a hex string "0abc" contains "ab" at an odd offset; as bytes it
	// must not match.
	_, ok := After([]byte{0x0a, 0xbc}, []byte{0xab})
	require.False(t, ok)
}
