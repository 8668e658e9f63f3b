package sql

import (
	"database/sql"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
)

// GetParsedTx decodes and returns the transaction with the given id,
// or nil if it is not stored.
func (s *Store) GetParsedTx(txID [32]byte) (*model.Tx, error) {
	const op = "sql.GetParsedTx"
	var raw []byte
	err := s.db.QueryRow(`SELECT raw FROM mining_raw_transactions WHERE tx_id = $1`, txID[:]).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError(op, "query", err)
	}
	tx, err := model.DecodeTx(raw)
	if err != nil {
		return nil, errors.NewCodecError(op, "decode tx", err)
	}
	return tx, nil
}
