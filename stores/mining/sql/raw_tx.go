package sql

import (
	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
)

// GetRawTxsForMerkleRootInOrder returns every transaction committed by
// merkleRoot, decoded, in ascending tx_index order.
func (s *Store) GetRawTxsForMerkleRootInOrder(merkleRoot [32]byte) ([]*model.Tx, error) {
	const op = "sql.GetRawTxsForMerkleRootInOrder"
	rows, err := s.db.Query(
		`SELECT raw FROM mining_raw_transactions WHERE merkle_root = $1 ORDER BY tx_index ASC`,
		merkleRoot[:],
	)
	if err != nil {
		return nil, errors.NewStorageError(op, "query", err)
	}
	defer rows.Close()

	var txs []*model.Tx
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.NewStorageError(op, "scan", err)
		}
		tx, err := model.DecodeTx(raw)
		if err != nil {
			return nil, errors.NewCodecError(op, "decode tx", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ParseAndInsertRawTx stores tx under merkleRoot at the given index,
// tagging it with domain and an optional external address hint. It is
// a no-op if a transaction with the same id is already stored.
func (s *Store) ParseAndInsertRawTx(tx *model.Tx, merkleRoot [32]byte, txIndex int, domain string, ebxAddress *string) error {
	const op = "sql.ParseAndInsertRawTx"
	id := tx.ID()
	_, err := s.db.Exec(
		`INSERT INTO mining_raw_transactions (tx_id, merkle_root, tx_index, raw, domain, ebx_address) VALUES ($1, $2, $3, $4, $5, $6)`,
		id[:], merkleRoot[:], txIndex, tx.Encode(), domain, ebxAddress,
	)
	if err != nil {
		if isUniqueViolation(s.engine, err) {
			return nil
		}
		return errors.NewStorageError(op, "insert", err)
	}
	return nil
}
