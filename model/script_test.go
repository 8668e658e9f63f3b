package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPkhOutputScriptRoundTrip(t *testing.T) {
	buf := make([]byte, 20)
	buf[0] = 0x42
	pkh, err := NewPkh(buf)
	require.NoError(t, err)

	script := NewPkhOutputScript(pkh)
	require.True(t, IsPkhOutput(script))

	got, err := PkhFromOutputScript(script)
	require.NoError(t, err)
	require.Equal(t, pkh.Buf(), got.Buf())
}

func TestIsPkhOutputRejectsOtherScripts(t *testing.T) {
	require.False(t, IsPkhOutput(NewMemoScript([]byte("hello"))))
	require.False(t, IsPkhOutput(Script{}))
}
