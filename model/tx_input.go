package model

import (
	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/pkg/codec"
)

// TxInput references a previous output by transaction id and index,
// carries an unlocking script, and a sequence number.
type TxInput struct {
	PrevTxID     [32]byte
	PrevOutIndex uint32
	Script       Script
	Sequence     uint32
}

// NewTxInput builds a TxInput.
func NewTxInput(prevTxID [32]byte, prevOutIndex uint32, script Script, sequence uint32) *TxInput {
	return &TxInput{PrevTxID: prevTxID, PrevOutIndex: prevOutIndex, Script: script, Sequence: sequence}
}

// Encode serializes the input: prev_tx_id ‖ prev_out_index_BE32 ‖
// varint(len(script)) ‖ script ‖ sequence_BE32.
//
// Sequence is big-endian on the wire; it is only little-endian inside
// the sequence sub-hash.
func (in *TxInput) Encode() []byte {
	w := codec.NewWriter()
	w.WriteBytes(in.PrevTxID[:])
	w.WriteU32BE(in.PrevOutIndex)
	w.WriteVarInt(uint64(len(in.Script)))
	w.WriteBytes(in.Script)
	w.WriteU32BE(in.Sequence)
	return w.Bytes()
}

// DecodeTxInput reads one input from r.
func DecodeTxInput(r *codec.Reader) (*TxInput, error) {
	const op = "model.DecodeTxInput"
	prevTxID, err := r.ReadBytes(32)
	if err != nil {
		return nil, errors.NewCodecError(op, "read prev_tx_id", err)
	}
	prevOutIndex, err := r.ReadU32BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read prev_out_index", err)
	}
	scriptLen, err := r.ReadVarInt()
	if err != nil {
		return nil, errors.NewCodecError(op, "read script length", err)
	}
	script, err := r.ReadBytes(int(scriptLen))
	if err != nil {
		return nil, errors.NewCodecError(op, "read script", err)
	}
	sequence, err := r.ReadU32BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read sequence", err)
	}
	in := &TxInput{PrevOutIndex: prevOutIndex, Script: script, Sequence: sequence}
	copy(in.PrevTxID[:], prevTxID)
	return in, nil
}
