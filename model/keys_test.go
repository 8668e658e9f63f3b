package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrivKeyStringRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	buf[0] = 0x01
	priv, err := NewPrivKey(buf)
	require.NoError(t, err)

	s := priv.ToString()
	require.Contains(t, s, privKeyTag)

	got, err := PrivKeyFromString(s)
	require.NoError(t, err)
	require.Equal(t, priv.Buf(), got.Buf())
}

func TestPrivKeyFromStringRejectsBadChecksum(t *testing.T) {
	buf := make([]byte, 32)
	buf[0] = 0x02
	priv, err := NewPrivKey(buf)
	require.NoError(t, err)
	s := priv.ToString()
	// Flip a character in the base58 body to corrupt the checksum.
	corrupted := s[:len(s)-1] + "9"
	if corrupted == s {
		corrupted = s[:len(s)-1] + "8"
	}
	_, err = PrivKeyFromString(corrupted)
	require.Error(t, err)
}

func TestKeyPairDerivation(t *testing.T) {
	buf := make([]byte, 32)
	buf[31] = 0x05
	priv, err := NewPrivKey(buf)
	require.NoError(t, err)

	kp, err := KeyPairFromPrivKey(priv)
	require.NoError(t, err)
	require.True(t, kp.PubKey.IsValid())

	pkh := PkhFromPubKey(kp.PubKey)
	s := pkh.ToString()
	got, err := PkhFromString(s)
	require.NoError(t, err)
	require.Equal(t, pkh.Buf(), got.Buf())
}
