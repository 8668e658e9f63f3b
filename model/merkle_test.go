package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestTxs(n int) []*Tx {
	txs := make([]*Tx, n)
	for i := 0; i < n; i++ {
		out := NewTxOutput(uint64(i+1), Script{})
		txs[i] = NewTx(1, nil, []*TxOutput{out}, uint64(i))
	}
	return txs
}

func TestMerkleTreeSingleTx(t *testing.T) {
	txs := buildTestTxs(1)
	tree := NewMerkleTree(txs)
	require.Equal(t, txs[0].ID(), tree.Root)
	require.Len(t, tree.Proofs, 1)
	require.True(t, tree.Proofs[0].Verify(tree.Root))
}

func TestMerkleTreeOddCount(t *testing.T) {
	txs := buildTestTxs(3)
	tree := NewMerkleTree(txs)
	for _, p := range tree.Proofs {
		require.True(t, p.Verify(tree.Root))
	}
}

func TestMerkleTreeEvenCount(t *testing.T) {
	txs := buildTestTxs(8)
	tree := NewMerkleTree(txs)
	for _, p := range tree.Proofs {
		require.True(t, p.Verify(tree.Root))
	}
}

func TestMerkleProofFailsOnWrongRoot(t *testing.T) {
	txs := buildTestTxs(4)
	tree := NewMerkleTree(txs)
	var wrongRoot [32]byte
	wrongRoot[0] = 0xff
	require.False(t, tree.Proofs[0].Verify(wrongRoot))
}
