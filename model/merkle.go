// Merkle tree builder over an ordered list of transactions: yields a
// 32-byte root and, per transaction, a proof of inclusion. Grounded on
// the double-blake3 hashing convention used throughout this core.
package model

// MerkleProof is a transaction's inclusion proof: the sibling hashes
// from leaf to root, and whether each is the left or right sibling at
// its level.
type MerkleProof struct {
	TxID    [32]byte
	Index   int
	Path    [][32]byte
	IsRight []bool
}

// MerkleTree holds the root built from an ordered transaction list,
// plus each leaf's proof in transaction order. The intermediate levels
// are not kept.
type MerkleTree struct {
	Root   [32]byte
	Proofs []*MerkleProof
}

func merkleNodeHash(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return doubleBlake3Hash(buf)
}

// NewMerkleTree builds the tree over txs in order, duplicating the
// last node of any odd-length level (the conventional Merkle
// padding rule).
func NewMerkleTree(txs []*Tx) *MerkleTree {
	n := len(txs)
	if n == 0 {
		return &MerkleTree{}
	}

	level := make([][32]byte, n)
	for i, tx := range txs {
		level[i] = tx.ID()
	}

	// levels[0] is the leaf level; levels[len-1] is the root level.
	levels := [][][32]byte{level}
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, merkleNodeHash(level[i], level[i+1]))
			} else {
				next = append(next, merkleNodeHash(level[i], level[i]))
			}
		}
		levels = append(levels, next)
		level = next
	}

	proofs := make([]*MerkleProof, n)
	for i, tx := range txs {
		proofs[i] = buildProof(levels, i, tx.ID())
	}

	return &MerkleTree{Root: level[0], Proofs: proofs}
}

func buildProof(levels [][][32]byte, leafIndex int, txID [32]byte) *MerkleProof {
	proof := &MerkleProof{TxID: txID, Index: leafIndex}
	idx := leafIndex
	for _, lvl := range levels[:len(levels)-1] {
		var sibling [32]byte
		var isRight bool
		if idx%2 == 0 {
			if idx+1 < len(lvl) {
				sibling = lvl[idx+1]
			} else {
				sibling = lvl[idx]
			}
			isRight = true
		} else {
			sibling = lvl[idx-1]
			isRight = false
		}
		proof.Path = append(proof.Path, sibling)
		proof.IsRight = append(proof.IsRight, isRight)
		idx /= 2
	}
	return proof
}

// Verify checks that p's path reconstructs root from its leaf.
func (p *MerkleProof) Verify(root [32]byte) bool {
	cur := p.TxID
	for i, sibling := range p.Path {
		if p.IsRight[i] {
			cur = merkleNodeHash(cur, sibling)
		} else {
			cur = merkleNodeHash(sibling, cur)
		}
	}
	return cur == root
}
