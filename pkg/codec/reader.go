// Package codec implements the fixed-width and variable-length integer
// encodings shared by headers and transactions: big-endian fixed-width
// integers plus a minimal-varint scheme that rejects non-minimal
// encodings outright rather than merely preferring the minimal form.
package codec

import (
	"encoding/binary"

	"github.com/earthbucks/ebxd/errors"
)

// Reader reads big-endian integers and varints from an in-memory buffer,
// returning errors instead of panicking on truncated input.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	const op = "codec.Reader.ReadBytes"
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, errors.NewCodecError(op, "not enough bytes left in buffer to read %d", n)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadRemainder consumes and returns every unread byte.
func (r *Reader) ReadRemainder() []byte {
	out := r.buf[r.pos:]
	r.pos = len(r.buf)
	return out
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	const op = "codec.Reader.ReadU8"
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, errors.NewCodecError(op, "unable to read 1 byte", err)
	}
	return b[0], nil
}

// ReadU16BE reads a big-endian uint16.
func (r *Reader) ReadU16BE() (uint16, error) {
	const op = "codec.Reader.ReadU16BE"
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, errors.NewCodecError(op, "unable to read 2 bytes", err)
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU32BE reads a big-endian uint32.
func (r *Reader) ReadU32BE() (uint32, error) {
	const op = "codec.Reader.ReadU32BE"
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, errors.NewCodecError(op, "unable to read 4 bytes", err)
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU64BE reads a big-endian uint64.
func (r *Reader) ReadU64BE() (uint64, error) {
	const op = "codec.Reader.ReadU64BE"
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, errors.NewCodecError(op, "unable to read 8 bytes", err)
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadVarIntBuf reads a varint and returns its raw encoded bytes
// (prefix byte plus any trailing width bytes), rejecting non-minimal
// encodings.
func (r *Reader) ReadVarIntBuf() ([]byte, error) {
	const op = "codec.Reader.ReadVarIntBuf"

	prefix, err := r.ReadU8()
	if err != nil {
		return nil, errors.NewCodecError(op, "unable to read varint prefix", err)
	}

	switch prefix {
	case 0xfd:
		rest, err := r.ReadBytes(2)
		if err != nil {
			return nil, errors.NewCodecError(op, "unable to read 2-byte varint body", err)
		}
		v := binary.BigEndian.Uint16(rest)
		if v < 0xfd {
			return nil, errors.NewCodecError(op, "non-minimal varint encoding 1")
		}
		return append([]byte{prefix}, rest...), nil
	case 0xfe:
		rest, err := r.ReadBytes(4)
		if err != nil {
			return nil, errors.NewCodecError(op, "unable to read 4-byte varint body", err)
		}
		v := binary.BigEndian.Uint32(rest)
		if v < 0x10000 {
			return nil, errors.NewCodecError(op, "non-minimal varint encoding 2")
		}
		return append([]byte{prefix}, rest...), nil
	case 0xff:
		rest, err := r.ReadBytes(8)
		if err != nil {
			return nil, errors.NewCodecError(op, "unable to read 8-byte varint body", err)
		}
		v := binary.BigEndian.Uint64(rest)
		if v < 0x100000000 {
			return nil, errors.NewCodecError(op, "non-minimal varint encoding 3")
		}
		return append([]byte{prefix}, rest...), nil
	default:
		return []byte{prefix}, nil
	}
}

// ReadVarInt reads and decodes a varint to its numeric value.
func (r *Reader) ReadVarInt() (uint64, error) {
	const op = "codec.Reader.ReadVarInt"
	buf, err := r.ReadVarIntBuf()
	if err != nil {
		return 0, err
	}
	switch buf[0] {
	case 0xfd:
		return uint64(binary.BigEndian.Uint16(buf[1:])), nil
	case 0xfe:
		return uint64(binary.BigEndian.Uint32(buf[1:])), nil
	case 0xff:
		return binary.BigEndian.Uint64(buf[1:]), nil
	default:
		return uint64(buf[0]), nil
	}
}
