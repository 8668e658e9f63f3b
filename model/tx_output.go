package model

import (
	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/pkg/codec"
)

// TxOutput is a transaction output: an amount and a locking script.
type TxOutput struct {
	Value  uint64
	Script Script
}

// NewTxOutput builds a TxOutput.
func NewTxOutput(value uint64, script Script) *TxOutput {
	return &TxOutput{Value: value, Script: script}
}

// Encode serializes the output: value_BE64 ‖ varint(len(script)) ‖ script.
func (o *TxOutput) Encode() []byte {
	w := codec.NewWriter()
	w.WriteU64BE(o.Value)
	w.WriteVarInt(uint64(len(o.Script)))
	w.WriteBytes(o.Script)
	return w.Bytes()
}

// DecodeTxOutput reads one output from r.
func DecodeTxOutput(r *codec.Reader) (*TxOutput, error) {
	const op = "model.DecodeTxOutput"
	value, err := r.ReadU64BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read value", err)
	}
	scriptLen, err := r.ReadVarInt()
	if err != nil {
		return nil, errors.NewCodecError(op, "read script length", err)
	}
	script, err := r.ReadBytes(int(scriptLen))
	if err != nil {
		return nil, errors.NewCodecError(op, "read script", err)
	}
	return &TxOutput{Value: value, Script: script}, nil
}
