package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteFixedWidth(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xAB)
	w.WriteU16BE(0x1234)
	w.WriteU32BE(0xDEADBEEF)
	w.WriteU64BE(0x0102030405060708)

	r := NewReader(w.Bytes())

	u8, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadU16BE()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadU32BE()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.ReadU64BE()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	require.True(t, r.EOF())
}

func TestReadBytesTruncated(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.ReadBytes(3)
	require.Error(t, err)
}

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, ^uint64(0)}
	for _, v := range cases {
		enc := EncodeVarInt(v)
		r := NewReader(enc)
		got, err := r.ReadVarInt()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.True(t, r.EOF())
	}
}

func TestVarIntRejectsNonMinimal(t *testing.T) {
	// 0xfd prefix followed by a value < 0xfd is non-minimal.
	r := NewReader([]byte{0xfd, 0x00, 0x01})
	_, err := r.ReadVarInt()
	require.Error(t, err)

	// 0xfe prefix followed by a value < 0x10000 is non-minimal.
	r2 := NewReader([]byte{0xfe, 0x00, 0x00, 0x00, 0x01})
	_, err = r2.ReadVarInt()
	require.Error(t, err)

	// 0xff prefix followed by a value < 0x100000000 is non-minimal.
	r3 := NewReader([]byte{0xff, 0, 0, 0, 0, 0, 0, 0, 1})
	_, err = r3.ReadVarInt()
	require.Error(t, err)
}
