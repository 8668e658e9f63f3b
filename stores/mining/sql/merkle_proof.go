package sql

import (
	"database/sql"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
)

func encodeBoolPath(flags []bool) []byte {
	out := make([]byte, len(flags))
	for i, f := range flags {
		if f {
			out[i] = 1
		}
	}
	return out
}

func decodeBoolPath(buf []byte) []bool {
	out := make([]bool, len(buf))
	for i, b := range buf {
		out[i] = b != 0
	}
	return out
}

func encodeHashPath(path [][32]byte) []byte {
	out := make([]byte, 0, len(path)*32)
	for _, h := range path {
		out = append(out, h[:]...)
	}
	return out
}

func decodeHashPath(buf []byte) [][32]byte {
	n := len(buf) / 32
	out := make([][32]byte, n)
	for i := 0; i < n; i++ {
		copy(out[i][:], buf[i*32:(i+1)*32])
	}
	return out
}

// UpsertMerkleProof stores or replaces the Merkle inclusion proof for
// a transaction id. Callers in the build phase run this inside a
// transaction shared across the whole batch of proof writes.
func (s *Store) UpsertMerkleProof(tx *sql.Tx, proof *model.MerkleProof, merkleRoot [32]byte) error {
	const op = "sql.UpsertMerkleProof"

	_, err := tx.Exec(
		`DELETE FROM mining_merkle_proofs WHERE tx_id = $1`,
		proof.TxID[:],
	)
	if err != nil {
		return errors.NewStorageError(op, "delete existing", err)
	}

	_, err = tx.Exec(
		`INSERT INTO mining_merkle_proofs (tx_id, merkle_root, leaf_index, path, is_right) VALUES ($1, $2, $3, $4, $5)`,
		proof.TxID[:], merkleRoot[:], proof.Index, encodeHashPath(proof.Path), encodeBoolPath(proof.IsRight),
	)
	if err != nil {
		return errors.NewStorageError(op, "insert", err)
	}
	return nil
}

// GetMerkleProof fetches the stored proof for a transaction id, if any.
func (s *Store) GetMerkleProof(txID [32]byte) (*model.MerkleProof, error) {
	const op = "sql.GetMerkleProof"
	var leafIndex int
	var path, isRight []byte
	err := s.db.QueryRow(
		`SELECT leaf_index, path, is_right FROM mining_merkle_proofs WHERE tx_id = $1`,
		txID[:],
	).Scan(&leafIndex, &path, &isRight)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError(op, "query", err)
	}
	return &model.MerkleProof{
		TxID:    txID,
		Index:   leafIndex,
		Path:    decodeHashPath(path),
		IsRight: decodeBoolPath(isRight),
	}, nil
}
