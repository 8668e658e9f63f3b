// Key material: private keys, public keys, and public-key hashes, each
// with a checksummed base58 text form ("ebxprv…", "ebxpub…", "ebxpkh…").
// Grounded on the original Rust PubKey encoding scheme: tag + hex(first
// 4 bytes of blake3(buf)) + base58(buf).
package model

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/earthbucks/ebxd/errors"
	"github.com/mr-tron/base58"
	"lukechampine.com/blake3"
)

const (
	privKeyTag = "ebxprv"
	pubKeyTag  = "ebxpub"
	pkhTag     = "ebxpkh"

	privKeyLen = 32
	pubKeyLen  = 33
	pkhLen     = 20
)

// PrivKey is a 32-byte secp256k1 scalar.
type PrivKey struct {
	buf [privKeyLen]byte
}

// PubKey is a 33-byte compressed secp256k1 point.
type PubKey struct {
	buf [pubKeyLen]byte
}

// Pkh is a public-key hash: blake3(pubKey)[0:20].
type Pkh struct {
	buf [pkhLen]byte
}

// KeyPair binds a private key to its derived public key.
type KeyPair struct {
	PrivKey *PrivKey
	PubKey  *PubKey
}

func checksum4(buf []byte) []byte {
	h := blake3.Sum256(buf)
	return h[:4]
}

func encodeIsoStr(tag string, buf []byte) string {
	return tag + hex.EncodeToString(checksum4(buf)) + base58.Encode(buf)
}

func decodeIsoStr(op, tag, s string) ([]byte, error) {
	if len(s) < len(tag)+8 {
		return nil, errors.NewKeyError(op, "string too short for tag %q", tag)
	}
	if s[:len(tag)] != tag {
		return nil, errors.NewKeyError(op, "wrong tag, expected %q", tag)
	}
	wantChecksumHex := s[len(tag) : len(tag)+8]
	wantChecksum, err := hex.DecodeString(wantChecksumHex)
	if err != nil {
		return nil, errors.NewKeyError(op, "invalid checksum hex", err)
	}
	buf, err := base58.Decode(s[len(tag)+8:])
	if err != nil {
		return nil, errors.NewKeyError(op, "invalid base58 body", err)
	}
	gotChecksum := checksum4(buf)
	if string(gotChecksum) != string(wantChecksum) {
		return nil, errors.NewKeyError(op, "checksum mismatch")
	}
	return buf, nil
}

// NewPrivKey wraps a 32-byte scalar.
func NewPrivKey(buf []byte) (*PrivKey, error) {
	const op = "model.NewPrivKey"
	if len(buf) != privKeyLen {
		return nil, errors.NewKeyError(op, "private key must be %d bytes, got %d", privKeyLen, len(buf))
	}
	k := &PrivKey{}
	copy(k.buf[:], buf)
	return k, nil
}

// Buf returns the raw 32-byte scalar.
func (k *PrivKey) Buf() []byte {
	out := make([]byte, privKeyLen)
	copy(out, k.buf[:])
	return out
}

// ToString renders the checksummed "ebxprv…" text form.
func (k *PrivKey) ToString() string {
	return encodeIsoStr(privKeyTag, k.buf[:])
}

// PrivKeyFromString parses the checksummed "ebxprv…" text form.
func PrivKeyFromString(s string) (*PrivKey, error) {
	const op = "model.PrivKeyFromString"
	buf, err := decodeIsoStr(op, privKeyTag, s)
	if err != nil {
		return nil, err
	}
	return NewPrivKey(buf)
}

// ToPubKeyBuf derives the compressed public key bytes for this private key.
func (k *PrivKey) ToPubKeyBuf() ([]byte, error) {
	const op = "model.PrivKey.ToPubKeyBuf"
	priv := secp256k1.PrivKeyFromBytes(k.buf[:])
	if priv == nil {
		return nil, errors.NewKeyError(op, "invalid scalar for secp256k1")
	}
	return priv.PubKey().SerializeCompressed(), nil
}

// NewPubKey wraps a 33-byte compressed point, validating it lies on the
// secp256k1 curve.
func NewPubKey(buf []byte) (*PubKey, error) {
	const op = "model.NewPubKey"
	if len(buf) != pubKeyLen {
		return nil, errors.NewKeyError(op, "public key must be %d bytes, got %d", pubKeyLen, len(buf))
	}
	if _, err := secp256k1.ParsePubKey(buf); err != nil {
		return nil, errors.NewKeyError(op, "invalid curve point", err)
	}
	p := &PubKey{}
	copy(p.buf[:], buf)
	return p, nil
}

// Buf returns the raw 33-byte compressed point.
func (p *PubKey) Buf() []byte {
	out := make([]byte, pubKeyLen)
	copy(out, p.buf[:])
	return out
}

// PubKeyFromPrivKey derives the public key for priv.
func PubKeyFromPrivKey(priv *PrivKey) (*PubKey, error) {
	buf, err := priv.ToPubKeyBuf()
	if err != nil {
		return nil, err
	}
	return NewPubKey(buf)
}

// ToString renders the checksummed "ebxpub…" text form.
func (p *PubKey) ToString() string {
	return encodeIsoStr(pubKeyTag, p.buf[:])
}

// PubKeyFromString parses the checksummed "ebxpub…" text form.
func PubKeyFromString(s string) (*PubKey, error) {
	const op = "model.PubKeyFromString"
	buf, err := decodeIsoStr(op, pubKeyTag, s)
	if err != nil {
		return nil, err
	}
	return NewPubKey(buf)
}

// IsValid reports whether buf is a valid compressed secp256k1 point.
func (p *PubKey) IsValid() bool {
	_, err := secp256k1.ParsePubKey(p.buf[:])
	return err == nil
}

// NewPkh wraps a 20-byte public-key hash.
func NewPkh(buf []byte) (*Pkh, error) {
	const op = "model.NewPkh"
	if len(buf) != pkhLen {
		return nil, errors.NewKeyError(op, "pkh must be %d bytes, got %d", pkhLen, len(buf))
	}
	h := &Pkh{}
	copy(h.buf[:], buf)
	return h, nil
}

// Buf returns the raw 20-byte hash.
func (h *Pkh) Buf() []byte {
	out := make([]byte, pkhLen)
	copy(out, h.buf[:])
	return out
}

// PkhFromPubKey derives the public-key hash of pub.
func PkhFromPubKey(pub *PubKey) *Pkh {
	full := blake3.Sum256(pub.buf[:])
	h := &Pkh{}
	copy(h.buf[:], full[:pkhLen])
	return h
}

// ToString renders the checksummed "ebxpkh…" text form.
func (h *Pkh) ToString() string {
	return encodeIsoStr(pkhTag, h.buf[:])
}

// PkhFromString parses the checksummed "ebxpkh…" text form.
func PkhFromString(s string) (*Pkh, error) {
	const op = "model.PkhFromString"
	buf, err := decodeIsoStr(op, pkhTag, s)
	if err != nil {
		return nil, err
	}
	return NewPkh(buf)
}

// KeyPairFromPrivKey derives a KeyPair from a private key.
func KeyPairFromPrivKey(priv *PrivKey) (*KeyPair, error) {
	pub, err := PubKeyFromPrivKey(priv)
	if err != nil {
		return nil, err
	}
	return &KeyPair{PrivKey: priv, PubKey: pub}, nil
}
