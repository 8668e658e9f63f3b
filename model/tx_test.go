package model

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func simpleTx(t *testing.T) *Tx {
	t.Helper()
	in := NewTxInput([32]byte{}, 0, Script{}, 0xffffffff)
	out := NewTxOutput(100, Script{})
	return NewTx(1, []*TxInput{in}, []*TxOutput{out}, 0)
}

func TestTxEncodeKnownVector(t *testing.T) {
	tx := simpleTx(t)
	want := "010100000000000000000000000000000000000000000000000000000000000000000000000000ffffffff010000000000000064000000000000000000"
	require.Equal(t, want, hex.EncodeToString(tx.Encode()))
}

func TestTxRoundTrip(t *testing.T) {
	tx := simpleTx(t)
	buf := tx.Encode()
	got, err := DecodeTx(buf)
	require.NoError(t, err)
	require.Equal(t, tx.Encode(), got.Encode())
}

func TestSighashDigestKnownVector(t *testing.T) {
	tx := simpleTx(t)
	digest, err := tx.Sighash(0, []byte{}, 1, SighashAll)
	require.NoError(t, err)
	require.Equal(t, "7ca2df5597b60403be38cdbd4dc4cd89d7d00fce6b0773ef903bc8b87c377fad"[:64], hex.EncodeToString(digest[:]))
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	tx := simpleTx(t)
	digest, err := tx.Sighash(0, []byte{}, 1, SighashAll)
	require.NoError(t, err)

	priv, err := NewPrivKey(digest[:])
	require.NoError(t, err)
	pub, err := PubKeyFromPrivKey(priv)
	require.NoError(t, err)

	sig, err := tx.Sign(0, []byte{}, 1, SighashAll, priv)
	require.NoError(t, err)
	require.Equal(t, SighashAll, sig.HashType)

	ok, err := tx.Verify(0, []byte{}, 1, sig, pub)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSighashAnyoneCanPayIndependence(t *testing.T) {
	in1 := NewTxInput([32]byte{0x01}, 0, Script{}, 1)
	in2 := NewTxInput([32]byte{0x02}, 1, Script{}, 2)
	out := NewTxOutput(100, Script{})

	full := NewTx(1, []*TxInput{in1, in2}, []*TxOutput{out}, 0)
	digestFull, err := full.Sighash(0, []byte{}, 1, SighashAll|SighashAnyoneCanPay)
	require.NoError(t, err)

	reduced := NewTx(1, []*TxInput{in1}, []*TxOutput{out}, 0)
	digestReduced, err := reduced.Sighash(0, []byte{}, 1, SighashAll|SighashAnyoneCanPay)
	require.NoError(t, err)

	require.Equal(t, digestFull, digestReduced, "ANYONECANPAY sighash must not depend on other inputs")

	digestNoFlag, err := full.Sighash(0, []byte{}, 1, SighashAll)
	require.NoError(t, err)
	require.NotEqual(t, digestFull, digestNoFlag, "toggling ANYONECANPAY must change the sighash")
}

func TestHashSequenceIsLittleEndian(t *testing.T) {
	in := NewTxInput([32]byte{}, 0, Script{}, 0x00000001)
	tx := NewTx(1, []*TxInput{in}, nil, 0)

	got := tx.HashSequence()
	want := doubleBlake3Hash([]byte{0x01, 0x00, 0x00, 0x00})
	require.Equal(t, want, got)
}
