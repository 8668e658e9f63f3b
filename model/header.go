// Header binary encoding, hashing, and chain-transition predicates.
// Grounded on the original Rust Header (header.rs): a fixed 148-byte
// image, blake3/double-blake3 hashing, genesis form, and the six-rule
// chain-validity check.
package model

import (
	"math/big"
	"time"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/pkg/codec"
)

const (
	HeaderSize = 148

	BlocksPerTargetAdj = 2016
	BlockIntervalSecs  = 600

	HeaderVersion = 1
)

// InitialTarget is 32 bytes of 0xff — the easiest possible target.
func InitialTarget() []byte {
	t := make([]byte, 32)
	for i := range t {
		t[i] = 0xff
	}
	return t
}

// Header is the 148-byte fixed-size block header.
type Header struct {
	Version     uint32
	PrevBlockID [32]byte
	MerkleRoot  [32]byte
	Timestamp   uint64
	Target      [32]byte
	Nonce       [32]byte
	BlockNum    uint64
}

// Encode serializes H to its canonical 148-byte wire image.
func (h *Header) Encode() []byte {
	w := codec.NewWriter()
	w.WriteU32BE(h.Version)
	w.WriteBytes(h.PrevBlockID[:])
	w.WriteBytes(h.MerkleRoot[:])
	w.WriteU64BE(h.Timestamp)
	w.WriteBytes(h.Target[:])
	w.WriteBytes(h.Nonce[:])
	w.WriteU64BE(h.BlockNum)
	return w.Bytes()
}

// DecodeHeader parses a 148-byte wire image. It returns an error rather
// than panicking on truncated input.
func DecodeHeader(buf []byte) (*Header, error) {
	const op = "model.DecodeHeader"
	if len(buf) != HeaderSize {
		return nil, errors.NewCodecError(op, "header must be %d bytes, got %d", HeaderSize, len(buf))
	}
	r := codec.NewReader(buf)

	version, err := r.ReadU32BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read version", err)
	}
	prevBlockID, err := r.ReadBytes(32)
	if err != nil {
		return nil, errors.NewCodecError(op, "read prev_block_id", err)
	}
	merkleRoot, err := r.ReadBytes(32)
	if err != nil {
		return nil, errors.NewCodecError(op, "read merkle_root", err)
	}
	timestamp, err := r.ReadU64BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read timestamp", err)
	}
	target, err := r.ReadBytes(32)
	if err != nil {
		return nil, errors.NewCodecError(op, "read target", err)
	}
	nonce, err := r.ReadBytes(32)
	if err != nil {
		return nil, errors.NewCodecError(op, "read nonce", err)
	}
	blockNum, err := r.ReadU64BE()
	if err != nil {
		return nil, errors.NewCodecError(op, "read block_num", err)
	}

	h := &Header{Version: version, Timestamp: timestamp, BlockNum: blockNum}
	copy(h.PrevBlockID[:], prevBlockID)
	copy(h.MerkleRoot[:], merkleRoot)
	copy(h.Target[:], target)
	copy(h.Nonce[:], nonce)
	return h, nil
}

// Hash returns blake3(encode(H)).
func (h *Header) Hash() [32]byte {
	return blake3Hash(h.Encode())
}

// ID returns blake3(blake3(encode(H))), the chain identifier used for
// linking and PoW comparison.
func (h *Header) ID() [32]byte {
	return doubleBlake3Hash(h.Encode())
}

// IsGenesis reports whether H is in genesis form.
func (h *Header) IsGenesis() bool {
	return h.BlockNum == 0 && h.PrevBlockID == [32]byte{}
}

// NewGenesisHeader builds the genesis header for the given merkle root
// and timestamp.
func NewGenesisHeader(merkleRoot [32]byte, timestamp uint64) *Header {
	h := &Header{
		Version:    HeaderVersion,
		MerkleRoot: merkleRoot,
		Timestamp:  timestamp,
		BlockNum:   0,
	}
	copy(h.Target[:], InitialTarget())
	return h
}

// IsValidVersion reports whether Version equals the single supported
// protocol version.
func (h *Header) IsValidVersion() bool {
	return h.Version == HeaderVersion
}

// IsValidInIsolation checks the rules that require no external context:
// correct size (implicit in the type) and version.
func (h *Header) IsValidInIsolation() bool {
	return h.IsValidVersion()
}

// targetAsInt interprets Target as a big-endian unsigned integer.
func (h *Header) targetAsInt() *big.Int {
	return new(big.Int).SetBytes(h.Target[:])
}

// IsValidTarget reports whether id(H) < H.Target.
func (h *Header) IsValidTarget() bool {
	id := h.ID()
	idInt := new(big.Int).SetBytes(id[:])
	return idInt.Cmp(h.targetAsInt()) < 0
}

// IsValidPow is an alias for IsValidTarget, named for the rule it checks.
func (h *Header) IsValidPow() bool {
	return h.IsValidTarget()
}

// GetNewTimestamp returns the current wall-clock time in Unix seconds.
func GetNewTimestamp() uint64 {
	return uint64(time.Now().Unix())
}

// IsValidChain checks rules 2-4 of chain validity against the chain
// this header would extend: genesis form, block-num continuity,
// previous-id linkage, and timestamp monotonicity. PoW (rule 6) and
// target correctness (rule 5's retarget match) are checked separately
// because they require the retarget computation.
func (h *Header) IsValidChain(chain []*Header) bool {
	if h.BlockNum == 0 {
		return h.IsGenesis()
	}
	n := len(chain)
	if n == 0 {
		return false
	}
	prev := chain[n-1]
	if h.BlockNum != uint64(n) {
		return false
	}
	prevID := prev.ID()
	if h.PrevBlockID != prevID {
		return false
	}
	if h.Timestamp <= prev.Timestamp {
		return false
	}
	return true
}

// IsValidAtTimestamp checks H.Timestamp does not exceed nowUnix.
func (h *Header) IsValidAtTimestamp(nowUnix uint64) bool {
	return h.Timestamp <= nowUnix
}

// IsValidAt performs full chain validity (isolation checks, chain
// linkage, timestamp monotonicity, target recomputation, PoW) against
// chain at the given wall-clock time.
func (h *Header) IsValidAt(chain []*Header, nowUnix uint64) bool {
	if !h.IsValidInIsolation() {
		return false
	}
	if !h.IsValidChain(chain) {
		return false
	}
	if h.BlockNum == 0 {
		return true
	}
	if !h.IsValidAtTimestamp(nowUnix) {
		return false
	}
	wantTarget, err := NewTargetFromChain(chain, h.Timestamp)
	if err != nil {
		return false
	}
	if h.Target != arrayFrom32(wantTarget) {
		return false
	}
	return h.IsValidPow()
}

// IsValidNow is IsValidAt evaluated at the current wall-clock time.
func (h *Header) IsValidNow(chain []*Header) bool {
	return h.IsValidAt(chain, GetNewTimestamp())
}

func arrayFrom32(buf []byte) [32]byte {
	var out [32]byte
	copy(out[:], buf)
	return out
}

// NewTargetFromChain computes the retarget: sum the targets of
// the last min(len(chain), 2016) headers, scale by the ratio of actual
// to intended elapsed time, and divide by the window size. Returns
// InitialTarget() if chain is empty, and clamps to InitialTarget() on
// overflow past 32 bytes.
func NewTargetFromChain(chain []*Header, newTimestamp uint64) ([]byte, error) {
	const op = "model.NewTargetFromChain"
	if len(chain) == 0 {
		return InitialTarget(), nil
	}

	windowLen := len(chain)
	if windowLen > BlocksPerTargetAdj {
		windowLen = BlocksPerTargetAdj
	}
	window := chain[len(chain)-windowLen:]

	sum := new(big.Int)
	for _, h := range window {
		sum.Add(sum, h.targetAsInt())
	}

	firstTimestamp := window[0].Timestamp
	if newTimestamp <= firstTimestamp {
		return nil, errors.NewConsensusError(op, "timestamps must be increasing")
	}
	realTimeDiff := new(big.Int).SetUint64(newTimestamp - firstTimestamp)

	return newTargetFromOldTargets(sum, realTimeDiff, windowLen)
}

// newTargetFromOldTargets implements `(sum * realTimeDiff) / (windowLen
// * BLOCK_INTERVAL) / windowLen`, serialized to a left-zero-padded
// 32-byte big-endian integer, clamped to InitialTarget() on overflow.
func newTargetFromOldTargets(sum, realTimeDiff *big.Int, windowLen int) ([]byte, error) {
	intendedSpan := big.NewInt(int64(windowLen) * BlockIntervalSecs)

	numerator := new(big.Int).Mul(sum, realTimeDiff)
	step1 := new(big.Int).Div(numerator, intendedSpan)
	newTarget := new(big.Int).Div(step1, big.NewInt(int64(windowLen)))

	buf := newTarget.Bytes()
	if len(buf) > 32 {
		return InitialTarget(), nil
	}
	out := make([]byte, 32)
	copy(out[32-len(buf):], buf)
	return out, nil
}

// CoinbaseAmount returns the block reward for blockNum: 100*1e8 halved
// every 210000 blocks, saturating to 0 after 63 halvings.
func CoinbaseAmount(blockNum uint64) uint64 {
	const base uint64 = 100 * 100_000_000
	halvings := blockNum / 210_000
	if halvings >= 64 {
		return 0
	}
	return base >> halvings
}
