// Script is an opaque, length-prefixed byte string in the wire format;
// this core only needs to recognize one predicate over it
// (pay-to-public-key-hash) and build its canonical form. Full script
// interpretation is an external collaborator and is out of scope here.
package model

const (
	OpDup         byte = 0x76
	OpHash        byte = 0xa9
	OpEqualVerify byte = 0x88
	OpCheckSig    byte = 0xac
	OpReturn      byte = 0x6a
)

// Script is a raw script byte string.
type Script []byte

// NewPkhOutputScript builds the canonical pay-to-public-key-hash
// output script: OP_DUP OP_HASH <20-byte pkh> OP_EQUALVERIFY OP_CHECKSIG.
func NewPkhOutputScript(pkh *Pkh) Script {
	s := make(Script, 0, 24)
	s = append(s, OpDup, OpHash)
	s = append(s, pkh.Buf()...)
	s = append(s, OpEqualVerify, OpCheckSig)
	return s
}

// NewMemoScript builds an unspendable data-carrier script committing
// to an arbitrary memo, used by the coinbase transaction to commit
// the miner's domain.
func NewMemoScript(memo []byte) Script {
	s := make(Script, 0, len(memo)+1)
	s = append(s, OpReturn)
	s = append(s, memo...)
	return s
}

// IsPkhOutput reports whether s is a canonical pay-to-public-key-hash
// output script.
func IsPkhOutput(s Script) bool {
	return len(s) == 24 && s[0] == OpDup && s[1] == OpHash && s[22] == OpEqualVerify && s[23] == OpCheckSig
}

// PkhFromOutputScript extracts the embedded public-key hash from a
// pay-to-public-key-hash output script. Callers must first check
// IsPkhOutput.
func PkhFromOutputScript(s Script) (*Pkh, error) {
	return NewPkh(s[2:22])
}
