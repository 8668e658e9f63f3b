package model

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{Version: 1, Timestamp: 12345, BlockNum: 7}
	copy(h.Target[:], InitialTarget())
	buf := h.Encode()
	require.Len(t, buf, HeaderSize)

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestHeaderHashAndIDKnownVector(t *testing.T) {
	h := &Header{Version: 1, Timestamp: 0, BlockNum: 0}

	hash := h.Hash()
	id := h.ID()

	require.Equal(t, "ec821c0b0375d4e80eca5fb437652b2d53f32a613d4349d665a67406ba0d239e"[:64], hex.EncodeToString(hash[:]))
	require.Equal(t, "8bbebda6265eb4265ff52f6e744d2859e6ef58c640e1df355072c4a9541b8aba"[:64], hex.EncodeToString(id[:]))
}

func TestCoinbaseAmountSchedule(t *testing.T) {
	require.Equal(t, uint64(10_000_000_000), CoinbaseAmount(0))
	require.Equal(t, uint64(5_000_000_000), CoinbaseAmount(210_000))

	var sum uint64
	for b := uint64(0); b <= 1_999_999; b++ {
		sum += CoinbaseAmount(b)
	}
	require.Equal(t, uint64(4_193_945_312_500_000), sum)
}

func TestRetargetSingleBlockWindow(t *testing.T) {
	allFF := &Header{Timestamp: 1000}
	copy(allFF.Target[:], InitialTarget())

	target, err := NewTargetFromChain([]*Header{allFF}, 1000+600)
	require.NoError(t, err)
	require.Equal(t, InitialTarget(), target)

	target, err = NewTargetFromChain([]*Header{allFF}, 1000+300)
	require.NoError(t, err)
	want := make([]byte, 32)
	want[0] = 0x7f
	for i := 1; i < 32; i++ {
		want[i] = 0xff
	}
	require.Equal(t, want, target)

	half := &Header{Timestamp: 1000}
	half.Target[0] = 0x00
	half.Target[1] = 0x80
	target, err = NewTargetFromChain([]*Header{half}, 1000+1200)
	require.NoError(t, err)
	wantOne := make([]byte, 32)
	wantOne[0] = 0x01
	require.Equal(t, wantOne, target)
}

func TestRetargetRejectsNonIncreasingTimestamp(t *testing.T) {
	h := &Header{Timestamp: 1000}
	copy(h.Target[:], InitialTarget())
	_, err := NewTargetFromChain([]*Header{h}, 1000)
	require.Error(t, err)

	_, err = NewTargetFromChain([]*Header{h}, 500)
	require.Error(t, err)
}

func TestIDStabilityUnderFieldPermutation(t *testing.T) {
	a := &Header{Version: 1, Timestamp: 10, BlockNum: 1}
	a.PrevBlockID[0] = 0x01
	b := &Header{Version: 1, Timestamp: 10, BlockNum: 1}
	b.MerkleRoot[0] = 0x01

	require.NotEqual(t, a.ID(), b.ID())
}
