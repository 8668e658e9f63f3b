package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pkhScriptForTest(seed byte) Script {
	var buf [20]byte
	buf[0] = seed
	pkh, _ := NewPkh(buf[:])
	return NewPkhOutputScript(pkh)
}

func TestTxBuilderProducesChange(t *testing.T) {
	unspent := []*UnspentOutput{
		{TxID: [32]byte{1}, Index: 0, TxOut: NewTxOutput(700, pkhScriptForTest(1))},
	}
	changeScript := pkhScriptForTest(2)

	b := NewTxBuilder(unspent, changeScript, 0)
	b.AddOutput(NewTxOutput(500, pkhScriptForTest(3)))
	tx := b.Build()

	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 2)

	var inputSum, outputSum uint64
	inputSum += 700
	for _, o := range tx.Outputs {
		outputSum += o.Value
	}
	require.Equal(t, inputSum, outputSum, "builder must be structurally zero-fee")
}

func TestTxBuilderSkipsNonPkhOutputs(t *testing.T) {
	unspent := []*UnspentOutput{
		{TxID: [32]byte{1}, Index: 0, TxOut: NewTxOutput(1000, Script{0x00})}, // not PKH
		{TxID: [32]byte{2}, Index: 0, TxOut: NewTxOutput(500, pkhScriptForTest(1))},
	}
	b := NewTxBuilder(unspent, pkhScriptForTest(2), 0)
	b.AddOutput(NewTxOutput(400, pkhScriptForTest(3)))
	tx := b.Build()

	require.Len(t, tx.Inputs, 1)
	require.Equal(t, [32]byte{2}, tx.Inputs[0].PrevTxID)
}

func TestTxBuilderReturnsUnderfundedTx(t *testing.T) {
	unspent := []*UnspentOutput{
		{TxID: [32]byte{1}, Index: 0, TxOut: NewTxOutput(100, pkhScriptForTest(1))},
	}
	b := NewTxBuilder(unspent, pkhScriptForTest(2), 0)
	b.AddOutput(NewTxOutput(10000, pkhScriptForTest(3)))
	tx := b.Build()

	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 1)
	require.Equal(t, uint64(10000), tx.Outputs[0].Value)
}
