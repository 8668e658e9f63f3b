package model

import (
	"github.com/earthbucks/ebxd/errors"
)

// HeaderChain is the in-memory longest-header-chain container: the sole
// source of truth for block number, chain tip id, and current target.
type HeaderChain struct {
	Headers []*Header
}

// NewHeaderChain wraps an ordered header slice.
func NewHeaderChain(headers []*Header) *HeaderChain {
	return &HeaderChain{Headers: headers}
}

// Len returns the chain length.
func (c *HeaderChain) Len() int {
	return len(c.Headers)
}

// Tip returns the last header, or nil if the chain is empty.
func (c *HeaderChain) Tip() *Header {
	if len(c.Headers) == 0 {
		return nil
	}
	return c.Headers[len(c.Headers)-1]
}

// TipID returns the chain tip's identifier, or the zero id for an
// empty chain.
func (c *HeaderChain) TipID() [32]byte {
	tip := c.Tip()
	if tip == nil {
		return [32]byte{}
	}
	return tip.ID()
}

// NewHeaderIsValidNow reports whether h may validly extend this chain
// right now, under the full chain-validity rules.
func (c *HeaderChain) NewHeaderIsValidNow(h *Header) bool {
	return h.IsValidNow(c.Headers)
}

// GetNextHeader derives the next candidate header: genesis if the
// chain is empty, else retargeted from the window with the previous
// header's id, block_num = len(chain), and a zero nonce pending mining.
func (c *HeaderChain) GetNextHeader(merkleRoot [32]byte, newTimestamp uint64) (*Header, error) {
	const op = "model.HeaderChain.GetNextHeader"
	if c.Len() == 0 {
		return NewGenesisHeader(merkleRoot, newTimestamp), nil
	}

	target, err := NewTargetFromChain(c.Headers, newTimestamp)
	if err != nil {
		return nil, errors.NewConsensusError(op, "compute retarget", err)
	}

	h := &Header{
		Version:    HeaderVersion,
		MerkleRoot: merkleRoot,
		Timestamp:  newTimestamp,
		BlockNum:   uint64(c.Len()),
	}
	h.PrevBlockID = c.TipID()
	copy(h.Target[:], target)
	return h, nil
}

// GetNextCoinbaseTx builds the coinbase transaction for the block this
// chain would next accept, paying coinbasePkh the schedule amount and
// committing domain in an OP_RETURN-style memo output.
func (c *HeaderChain) GetNextCoinbaseTx(coinbasePkh *Pkh, domain string) (*Tx, error) {
	amount := CoinbaseAmount(uint64(c.Len()))
	return NewCoinbaseTx(amount, coinbasePkh, domain)
}
