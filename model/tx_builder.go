// Deterministic chain-level transaction builder. Grounded on the
// original Rust TxBuilder (tx_builder.rs): PKH-only input eligibility,
// map-iteration-order selection, and a structurally-zero-fee change
// output.
package model

// UnspentOutput pairs a previous transaction id/index with its output,
// the unit the builder selects inputs from.
type UnspentOutput struct {
	TxID  [32]byte
	Index uint32
	TxOut *TxOutput
}

// TxBuilder accumulates declared outputs and selects inputs from a
// caller-supplied unspent-output list to cover them, emitting a
// structurally-zero-fee transaction.
type TxBuilder struct {
	UnspentOutputs []*UnspentOutput
	Outputs        []*TxOutput
	ChangeScript   Script
	LockTime       uint64
}

// NewTxBuilder builds a TxBuilder over unspentOutputs (consulted in
// the given order), paying to a change script on leftover input value.
func NewTxBuilder(unspentOutputs []*UnspentOutput, changeScript Script, lockTime uint64) *TxBuilder {
	return &TxBuilder{UnspentOutputs: unspentOutputs, ChangeScript: changeScript, LockTime: lockTime}
}

// AddOutput appends a declared output the built transaction must pay.
func (b *TxBuilder) AddOutput(out *TxOutput) {
	b.Outputs = append(b.Outputs, out)
}

// Build selects PKH-eligible unspent outputs in order until their sum
// covers the declared outputs, appends a change output for any excess,
// and returns the resulting transaction. If the available unspent
// outputs are insufficient, it still returns a transaction (the
// caller may reject it as underfunded): this matches the original's
// `build` behavior of exhausting the input list and returning early.
func (b *TxBuilder) Build() *Tx {
	var totalSpend uint64
	for _, out := range b.Outputs {
		totalSpend += out.Value
	}

	var inputs []*TxInput
	var inputAmount uint64
	for _, u := range b.UnspentOutputs {
		if !IsPkhOutput(u.TxOut.Script) {
			continue
		}
		inputs = append(inputs, NewTxInput(u.TxID, u.Index, Script{}, 0xffffffff))
		inputAmount += u.TxOut.Value
		if inputAmount >= totalSpend {
			break
		}
	}

	outputs := make([]*TxOutput, len(b.Outputs))
	copy(outputs, b.Outputs)
	if inputAmount > totalSpend {
		changeAmount := inputAmount - totalSpend
		outputs = append(outputs, NewTxOutput(changeAmount, b.ChangeScript))
	}

	return NewTx(HeaderVersion, inputs, outputs, b.LockTime)
}
