package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderChainGenesisAndNext(t *testing.T) {
	chain := NewHeaderChain(nil)
	require.Equal(t, 0, chain.Len())
	require.Equal(t, [32]byte{}, chain.TipID())

	genesis, err := chain.GetNextHeader([32]byte{0xaa}, 1000)
	require.NoError(t, err)
	require.True(t, genesis.IsGenesis())

	chain = NewHeaderChain([]*Header{genesis})

	next, err := chain.GetNextHeader([32]byte{0xbb}, genesis.Timestamp+1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), next.BlockNum)
	require.Equal(t, genesis.ID(), next.PrevBlockID)
}

func TestGetNextCoinbaseTxPaysConfiguredPkh(t *testing.T) {
	chain := NewHeaderChain(nil)
	var buf [20]byte
	buf[0] = 0x09
	pkh, err := NewPkh(buf[:])
	require.NoError(t, err)

	tx, err := chain.GetNextCoinbaseTx(pkh, "example.com")
	require.NoError(t, err)
	require.Equal(t, uint64(10_000_000_000), tx.Outputs[0].Value)

	gotPkh, err := PkhFromOutputScript(tx.Outputs[0].Script)
	require.NoError(t, err)
	require.Equal(t, pkh.Buf(), gotPkh.Buf())
}
