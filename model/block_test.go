package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockCheckMerkleRoot(t *testing.T) {
	txs := buildTestTxs(3)
	tree := NewMerkleTree(txs)

	h := &Header{Version: 1, MerkleRoot: tree.Root, Timestamp: 1, BlockNum: 0}
	block := NewBlock(h, txs)
	require.True(t, block.CheckMerkleRoot())

	h.MerkleRoot[0] ^= 0xff
	require.False(t, block.CheckMerkleRoot())
}

func TestBlockVerifierRejectsUnbalancedTx(t *testing.T) {
	coinbase := NewTx(1, nil, []*TxOutput{NewTxOutput(1000, Script{})}, 0)

	prevTxID := [32]byte{0x01}
	spend := NewTx(1, []*TxInput{NewTxInput(prevTxID, 0, Script{}, 0xffffffff)},
		[]*TxOutput{NewTxOutput(999, Script{})}, 0)

	txs := []*Tx{coinbase, spend}
	tree := NewMerkleTree(txs)
	header := &Header{Version: 1, MerkleRoot: tree.Root, Timestamp: 1, BlockNum: 0}

	block := NewBlock(header, txs)
	txOuts := NewTxOutputMap()
	txOuts.Add(prevTxID, 0, NewTxOutput(1000, Script{}))

	chain := NewHeaderChain(nil)
	verifier := NewBlockVerifier(block, txOuts, chain)
	ok, err := verifier.IsValidNow()
	require.NoError(t, err)
	require.False(t, ok, "input sum 1000 != output sum 999 must fail balance check")
}

func TestBlockVerifierAcceptsBalancedGenesisBlock(t *testing.T) {
	coinbase := NewTx(1, nil, []*TxOutput{NewTxOutput(1000, Script{})}, 0)
	txs := []*Tx{coinbase}
	tree := NewMerkleTree(txs)
	header := NewGenesisHeader(tree.Root, 1)

	block := NewBlock(header, txs)
	txOuts := NewTxOutputMap()
	chain := NewHeaderChain(nil)

	verifier := NewBlockVerifier(block, txOuts, chain)
	ok, err := verifier.IsValidNow()
	require.NoError(t, err)
	require.True(t, ok)
}
