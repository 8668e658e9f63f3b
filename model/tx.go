// Transaction binary format, memoized sub-hashes, sighash preimage and
// digest, and signing/verification. Grounded on the original Rust
// Transaction (transaction.rs): canonical encode/decode, the three
// double-blake3 sub-hashes, and the SIGHASH substitution rules.
package model

import (
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/pkg/codec"
)

const (
	SighashAll          uint8 = 0x01
	SighashNone         uint8 = 0x02
	SighashSingle       uint8 = 0x03
	SighashAnyoneCanPay uint8 = 0x80

	sighashTypeMask uint8 = 0x1f
)

// Tx is a transaction: version, ordered inputs, ordered outputs, and an
// absolute lock time. The three sub-hashes are memoized lazily.
type Tx struct {
	Version  uint8
	Inputs   []*TxInput
	Outputs  []*TxOutput
	LockTime uint64

	prevoutsHash *[32]byte
	sequenceHash *[32]byte
	outputsHash  *[32]byte
}

// NewTx builds a Tx.
func NewTx(version uint8, inputs []*TxInput, outputs []*TxOutput, lockTime uint64) *Tx {
	return &Tx{Version: version, Inputs: inputs, Outputs: outputs, LockTime: lockTime}
}

// Encode serializes the transaction to its canonical wire image:
// version ‖ varint(|inputs|) ‖ input* ‖ varint(|outputs|) ‖ output* ‖ lock_time.
func (tx *Tx) Encode() []byte {
	w := codec.NewWriter()
	w.WriteU8(tx.Version)
	w.WriteVarInt(uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		w.WriteBytes(in.Encode())
	}
	w.WriteVarInt(uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		w.WriteBytes(out.Encode())
	}
	w.WriteU64BE(tx.LockTime)
	return w.Bytes()
}

// DecodeTx parses a transaction from its canonical wire image.
func DecodeTx(buf []byte) (*Tx, error) {
	const op = "model.DecodeTx"
	r := codec.NewReader(buf)

	version, err := r.ReadU8()
	if err != nil {
		return nil, errors.NewCodecError(op, "read version", err)
	}
	inputCount, err := r.ReadVarInt()
	if err != nil {
		return nil, errors.NewCodecError(op, "read input count", err)
	}
	inputs := make([]*TxInput, 0, inputCount)
	for i := uint64(0); i < inputCount; i++ {
		in, err := DecodeTxInput(r)
		if err != nil {
			return nil, errors.NewCodecError(op, "read input %d", i, err)
		}
		inputs = append(inputs, in)
	}
	outputCount, err := r.ReadVarInt()
	if err != nil {
		return nil, errors.NewCodecError(op, "read output count", err)
	}
	outputs := make([]*TxOutput, 0, outputCount)
	for i := uint64(0); i < outputCount; i++ {
		out, err := DecodeTxOutput(r)
		if err != nil {
			return nil, errors.NewCodecError(op, "read output %d", i, err)
		}
		outputs = append(outputs, out)
	}
	lockTime, err := r.ReadU64BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read lock_time", err)
	}

	return &Tx{Version: version, Inputs: inputs, Outputs: outputs, LockTime: lockTime}, nil
}

// Hash returns blake3(encode(tx)).
func (tx *Tx) Hash() [32]byte {
	return blake3Hash(tx.Encode())
}

// ID returns blake3(blake3(encode(tx))), the transaction identifier.
func (tx *Tx) ID() [32]byte {
	return doubleBlake3Hash(tx.Encode())
}

// HashPrevouts returns (and memoizes) double-blake3 of the concatenated
// prev_tx_id ‖ prev_out_index_BE32 of every input.
func (tx *Tx) HashPrevouts() [32]byte {
	if tx.prevoutsHash != nil {
		return *tx.prevoutsHash
	}
	w := codec.NewWriter()
	for _, in := range tx.Inputs {
		w.WriteBytes(in.PrevTxID[:])
		w.WriteU32BE(in.PrevOutIndex)
	}
	h := doubleBlake3Hash(w.Bytes())
	tx.prevoutsHash = &h
	return h
}

// HashSequence returns (and memoizes) double-blake3 of the concatenated
// sequence numbers, each encoded little-endian — the one deliberate
// endianness exception in this format.
func (tx *Tx) HashSequence() [32]byte {
	if tx.sequenceHash != nil {
		return *tx.sequenceHash
	}
	buf := make([]byte, 0, 4*len(tx.Inputs))
	var b [4]byte
	for _, in := range tx.Inputs {
		binary.LittleEndian.PutUint32(b[:], in.Sequence)
		buf = append(buf, b[:]...)
	}
	h := doubleBlake3Hash(buf)
	tx.sequenceHash = &h
	return h
}

// HashOutputs returns (and memoizes) double-blake3 of the concatenated
// canonical encodings of every output.
func (tx *Tx) HashOutputs() [32]byte {
	if tx.outputsHash != nil {
		return *tx.outputsHash
	}
	w := codec.NewWriter()
	for _, out := range tx.Outputs {
		w.WriteBytes(out.Encode())
	}
	h := doubleBlake3Hash(w.Bytes())
	tx.outputsHash = &h
	return h
}

// SighashPreimage builds the canonical sighash preimage for input
// inputIndex, spending a previous output locked by script S with
// amount a, under hash_type t.
func (tx *Tx) SighashPreimage(inputIndex int, script []byte, amount uint64, hashType uint8) ([]byte, error) {
	const op = "model.Tx.SighashPreimage"
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return nil, errors.NewConsensusError(op, "input index %d out of range", inputIndex)
	}
	in := tx.Inputs[inputIndex]

	var zero32 [32]byte
	hashPrevouts := zero32
	hashSequence := zero32
	hashOutputs := zero32

	anyoneCanPay := hashType&SighashAnyoneCanPay != 0
	typ := hashType & sighashTypeMask

	if !anyoneCanPay {
		hashPrevouts = tx.HashPrevouts()
	}
	if !anyoneCanPay && typ != SighashSingle && typ != SighashNone {
		hashSequence = tx.HashSequence()
	}
	switch {
	case typ != SighashSingle && typ != SighashNone:
		hashOutputs = tx.HashOutputs()
	case typ == SighashSingle && inputIndex < len(tx.Outputs):
		hashOutputs = doubleBlake3Hash(tx.Outputs[inputIndex].Encode())
	default:
		// hashOutputs stays zero
	}

	w := codec.NewWriter()
	w.WriteU8(tx.Version)
	w.WriteBytes(hashPrevouts[:])
	w.WriteBytes(hashSequence[:])
	w.WriteBytes(in.PrevTxID[:])
	w.WriteU32BE(in.PrevOutIndex)
	w.WriteVarInt(uint64(len(script)))
	w.WriteBytes(script)
	w.WriteU64BE(amount)
	w.WriteU32BE(in.Sequence)
	w.WriteBytes(hashOutputs[:])
	w.WriteU64BE(tx.LockTime)
	w.WriteU8(hashType)
	return w.Bytes(), nil
}

// Sighash returns double-blake3(preimage).
func (tx *Tx) Sighash(inputIndex int, script []byte, amount uint64, hashType uint8) ([32]byte, error) {
	preimage, err := tx.SighashPreimage(inputIndex, script, amount, hashType)
	if err != nil {
		return [32]byte{}, err
	}
	return doubleBlake3Hash(preimage), nil
}

// TxSignature is a hash_type byte followed by a 64-byte compact ECDSA
// signature.
type TxSignature struct {
	HashType uint8
	SigBuf   [64]byte
}

// Encode serializes the signature: hash_type ‖ 64-byte compact sig.
func (s *TxSignature) Encode() []byte {
	out := make([]byte, 0, 65)
	out = append(out, s.HashType)
	out = append(out, s.SigBuf[:]...)
	return out
}

// DecodeTxSignature parses a 65-byte signature.
func DecodeTxSignature(buf []byte) (*TxSignature, error) {
	const op = "model.DecodeTxSignature"
	if len(buf) != 65 {
		return nil, errors.NewCodecError(op, "signature must be 65 bytes, got %d", len(buf))
	}
	s := &TxSignature{HashType: buf[0]}
	copy(s.SigBuf[:], buf[1:])
	return s, nil
}

// Sign signs input inputIndex's sighash (at the given previous script
// and amount, under hashType) with priv, returning the compact
// signature prefixed by hashType.
func (tx *Tx) Sign(inputIndex int, script []byte, amount uint64, hashType uint8, priv *PrivKey) (*TxSignature, error) {
	const op = "model.Tx.Sign"
	digest, err := tx.Sighash(inputIndex, script, amount, hashType)
	if err != nil {
		return nil, err
	}
	secKey := secp256k1.PrivKeyFromBytes(priv.Buf())

	// SignCompact produces a 65-byte recoverable signature (1-byte
	// recovery id ‖ 32-byte r ‖ 32-byte s); this format only commits to
	// the raw r‖s pair, so the recovery id is discarded.
	recoverable := ecdsa.SignCompact(secKey, digest[:], true)
	if len(recoverable) != 65 {
		return nil, errors.NewKeyError(op, "unexpected recoverable signature length %d", len(recoverable))
	}

	out := &TxSignature{HashType: hashType}
	copy(out.SigBuf[:], recoverable[1:])
	return out, nil
}

// Verify recomputes the sighash for inputIndex using the signature's
// declared hash_type and checks it against pub.
func (tx *Tx) Verify(inputIndex int, script []byte, amount uint64, sig *TxSignature, pub *PubKey) (bool, error) {
	const op = "model.Tx.Verify"
	digest, err := tx.Sighash(inputIndex, script, amount, sig.HashType)
	if err != nil {
		return false, err
	}
	pubKey, err := secp256k1.ParsePubKey(pub.Buf())
	if err != nil {
		return false, errors.NewKeyError(op, "invalid public key", err)
	}
	sigObj, err := parseCompactSignature(sig.SigBuf[:])
	if err != nil {
		return false, errors.NewKeyError(op, "invalid signature encoding", err)
	}
	return sigObj.Verify(digest[:], pubKey), nil
}

// parseCompactSignature reconstructs an ecdsa.Signature from a 64-byte
// raw r‖s buffer (no recovery id, unlike Bitcoin's compact format).
func parseCompactSignature(buf [64]byte) (*ecdsa.Signature, error) {
	const op = "model.parseCompactSignature"
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(buf[:32]); overflow {
		return nil, errors.NewKeyError(op, "signature r overflows the group order")
	}
	if overflow := s.SetByteSlice(buf[32:]); overflow {
		return nil, errors.NewKeyError(op, "signature s overflows the group order")
	}
	return ecdsa.NewSignature(&r, &s), nil
}
