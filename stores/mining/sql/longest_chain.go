package sql

import (
	"database/sql"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
)

// GetLongestChain loads the full persisted longest chain in block-num
// order.
func (s *Store) GetLongestChain() (*model.HeaderChain, error) {
	const op = "sql.GetLongestChain"
	rows, err := s.db.Query(
		`SELECT h.encoded FROM mining_longest_chain lc
		 JOIN mining_headers h ON h.header_id = lc.header_id
		 ORDER BY lc.chain_index ASC`,
	)
	if err != nil {
		return nil, errors.NewStorageError(op, "query", err)
	}
	defer rows.Close()

	var headers []*model.Header
	for rows.Next() {
		var encoded []byte
		if err := rows.Scan(&encoded); err != nil {
			return nil, errors.NewStorageError(op, "scan", err)
		}
		h, err := model.DecodeHeader(encoded)
		if err != nil {
			return nil, errors.NewStorageError(op, "decode header", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(op, "iterate", err)
	}

	return model.NewHeaderChain(headers), nil
}

// GetChainTipID returns the id of the last header in the persisted
// longest chain, or the zero id if the chain is empty.
func (s *Store) GetChainTipID() ([32]byte, error) {
	const op = "sql.GetChainTipID"
	var encoded []byte
	err := s.db.QueryRow(
		`SELECT h.encoded FROM mining_longest_chain lc
		 JOIN mining_headers h ON h.header_id = lc.header_id
		 ORDER BY lc.chain_index DESC LIMIT 1`,
	).Scan(&encoded)
	if err == sql.ErrNoRows {
		return [32]byte{}, nil
	}
	if err != nil {
		return [32]byte{}, errors.NewStorageError(op, "query", err)
	}
	h, err := model.DecodeHeader(encoded)
	if err != nil {
		return [32]byte{}, errors.NewStorageError(op, "decode header", err)
	}
	return h.ID(), nil
}

// SaveFromVotedHeader appends h to the persisted longest chain at
// index h.BlockNum. Vote acceptance and this append must be atomic;
// the mining loop runs this inside a transaction together with the
// is_vote_valid update.
func (s *Store) SaveFromVotedHeader(tx *sql.Tx, h *model.Header) error {
	const op = "sql.SaveFromVotedHeader"
	_, err := tx.Exec(
		`INSERT INTO mining_longest_chain (chain_index, header_id) VALUES ($1, $2)`,
		h.BlockNum, headerIDBytes(h),
	)
	if err != nil {
		return errors.NewStorageError(op, "insert", err)
	}
	return nil
}
