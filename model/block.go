// Block pairs a header with its transactions; BlockVerifier checks a
// block against the chain it would extend and the unspent outputs its
// inputs reference. Header acceptance and body verification are staged
// checks, run in that order.
package model

// Block is a header and the ordered transactions committed by its
// Merkle root.
type Block struct {
	Header *Header
	Txs    []*Tx
}

// NewBlock builds a Block.
func NewBlock(header *Header, txs []*Tx) *Block {
	return &Block{Header: header, Txs: txs}
}

// CheckMerkleRoot reports whether the block's transactions hash to the
// header's committed Merkle root.
func (b *Block) CheckMerkleRoot() bool {
	tree := NewMerkleTree(b.Txs)
	return tree.Root == b.Header.MerkleRoot
}

// TxOutputMap is the unspent-output context a block's inputs are
// checked against, keyed by (tx_id, out_index).
type TxOutputMap struct {
	byKey map[txOutKey]*TxOutput
}

type txOutKey struct {
	txID  [32]byte
	index uint32
}

// NewTxOutputMap builds an empty TxOutputMap.
func NewTxOutputMap() *TxOutputMap {
	return &TxOutputMap{byKey: make(map[txOutKey]*TxOutput)}
}

// Add registers the output at (txID, index) as spendable.
func (m *TxOutputMap) Add(txID [32]byte, index uint32, out *TxOutput) {
	m.byKey[txOutKey{txID, index}] = out
}

// Get looks up the output at (txID, index), if present.
func (m *TxOutputMap) Get(txID [32]byte, index uint32) (*TxOutput, bool) {
	out, ok := m.byKey[txOutKey{txID, index}]
	return out, ok
}

// BlockVerifier checks a candidate block against the chain it would
// extend and the unspent outputs its inputs reference.
type BlockVerifier struct {
	Block   *Block
	TxOuts  *TxOutputMap
	Chain   *HeaderChain
}

// NewBlockVerifier builds a BlockVerifier.
func NewBlockVerifier(block *Block, txOuts *TxOutputMap, chain *HeaderChain) *BlockVerifier {
	return &BlockVerifier{Block: block, TxOuts: txOuts, Chain: chain}
}

// IsValidNow runs every block-level check at the current wall clock:
// header chain validity, Merkle root commitment, and that every
// non-coinbase input's amount is resolvable and the transaction is
// balanced (inputs == outputs, per the zero-fee invariant).
func (v *BlockVerifier) IsValidNow() (bool, error) {
	if !v.Chain.NewHeaderIsValidNow(v.Block.Header) {
		return false, nil
	}
	if !v.Block.CheckMerkleRoot() {
		return false, nil
	}

	for i, tx := range v.Block.Txs {
		if i == 0 {
			// Coinbase transaction: not balanced against inputs.
			continue
		}
		var inputSum, outputSum uint64
		for _, in := range tx.Inputs {
			out, ok := v.TxOuts.Get(in.PrevTxID, in.PrevOutIndex)
			if !ok {
				return false, nil
			}
			inputSum += out.Value
		}
		for _, out := range tx.Outputs {
			outputSum += out.Value
		}
		if inputSum != outputSum {
			return false, nil
		}
	}

	return true, nil
}
