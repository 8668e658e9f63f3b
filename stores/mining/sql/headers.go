package sql

import (
	"database/sql"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
)

// HeaderRow is a persisted candidate header plus its pipeline status
// flags. A nil flag means "not yet decided"; the mining loop's phases
// each target one undecided flag.
type HeaderRow struct {
	Header        *model.Header
	IsHeaderValid *bool
	IsBlockValid  *bool
	IsVoteValid   *bool
}

func headerIDBytes(h *model.Header) []byte {
	id := h.ID()
	return id[:]
}

// SaveHeader inserts a new candidate header row. It is a no-op (not an
// error) if a header with the same id already exists, matching the
// mining loop's "save unless an identical-id header already exists"
// build-phase contract.
func (s *Store) SaveHeader(h *model.Header) error {
	const op = "sql.SaveHeader"

	_, err := s.db.Exec(
		`INSERT INTO mining_headers (header_id, encoded, block_num) VALUES ($1, $2, $3)`,
		headerIDBytes(h), h.Encode(), h.BlockNum,
	)
	if err != nil {
		if isUniqueViolation(s.engine, err) {
			return nil
		}
		return errors.NewStorageError(op, "insert header", err)
	}
	return nil
}

// GetHeader fetches the header row with the given id, if present.
func (s *Store) GetHeader(headerID [32]byte) (*HeaderRow, error) {
	const op = "sql.GetHeader"
	row := s.db.QueryRow(
		`SELECT encoded, is_header_valid, is_block_valid, is_vote_valid FROM mining_headers WHERE header_id = $1`,
		headerID[:],
	)
	hr, err := scanHeaderRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError(op, "query header", err)
	}
	return hr, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHeaderRow(row rowScanner) (*HeaderRow, error) {
	var encoded []byte
	var isHeaderValid, isBlockValid, isVoteValid sql.NullBool
	if err := row.Scan(&encoded, &isHeaderValid, &isBlockValid, &isVoteValid); err != nil {
		return nil, err
	}
	h, err := model.DecodeHeader(encoded)
	if err != nil {
		return nil, err
	}
	hr := &HeaderRow{Header: h}
	if isHeaderValid.Valid {
		hr.IsHeaderValid = &isHeaderValid.Bool
	}
	if isBlockValid.Valid {
		hr.IsBlockValid = &isBlockValid.Bool
	}
	if isVoteValid.Valid {
		hr.IsVoteValid = &isVoteValid.Bool
	}
	return hr, nil
}

func (s *Store) queryHeaderRows(query string, args ...interface{}) ([]*HeaderRow, error) {
	const op = "sql.queryHeaderRows"
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.NewStorageError(op, "query", err)
	}
	defer rows.Close()

	var out []*HeaderRow
	for rows.Next() {
		hr, err := scanHeaderRow(rows)
		if err != nil {
			return nil, errors.NewStorageError(op, "scan", err)
		}
		out = append(out, hr)
	}
	return out, rows.Err()
}

// GetCandidateHeaders returns headers awaiting a PoW-check decision.
func (s *Store) GetCandidateHeaders() ([]*HeaderRow, error) {
	return s.queryHeaderRows(
		`SELECT encoded, is_header_valid, is_block_valid, is_vote_valid FROM mining_headers WHERE is_header_valid IS NULL`,
	)
}

// GetValidatedHeaders returns headers whose PoW was accepted but whose
// block body is unverified.
func (s *Store) GetValidatedHeaders() ([]*HeaderRow, error) {
	return s.queryHeaderRows(
		`SELECT encoded, is_header_valid, is_block_valid, is_vote_valid FROM mining_headers WHERE is_header_valid = true AND is_block_valid IS NULL`,
	)
}

// GetVotingHeaders returns headers whose block has been verified but
// not yet voted.
func (s *Store) GetVotingHeaders() ([]*HeaderRow, error) {
	return s.queryHeaderRows(
		`SELECT encoded, is_header_valid, is_block_valid, is_vote_valid FROM mining_headers WHERE is_block_valid = true AND is_vote_valid IS NULL`,
	)
}

// UpdateIsHeaderValid persists the PoW-check verdict for headerID.
func (s *Store) UpdateIsHeaderValid(headerID [32]byte, valid bool) error {
	const op = "sql.UpdateIsHeaderValid"
	_, err := s.db.Exec(`UPDATE mining_headers SET is_header_valid = $1 WHERE header_id = $2`, valid, headerID[:])
	if err != nil {
		return errors.NewStorageError(op, "update", err)
	}
	return nil
}

// UpdateIsBlockValid persists the block-verify verdict for headerID.
func (s *Store) UpdateIsBlockValid(headerID [32]byte, valid bool) error {
	const op = "sql.UpdateIsBlockValid"
	_, err := s.db.Exec(`UPDATE mining_headers SET is_block_valid = $1 WHERE header_id = $2`, valid, headerID[:])
	if err != nil {
		return errors.NewStorageError(op, "update", err)
	}
	return nil
}

// UpdateIsVoteValid persists the vote verdict for headerID.
func (s *Store) UpdateIsVoteValid(headerID [32]byte, valid bool) error {
	const op = "sql.UpdateIsVoteValid"
	_, err := s.db.Exec(`UPDATE mining_headers SET is_vote_valid = $1 WHERE header_id = $2`, valid, headerID[:])
	if err != nil {
		return errors.NewStorageError(op, "update", err)
	}
	return nil
}

// DeleteUnusedHeaders removes candidate headers below belowBlockNum
// that never became part of the longest chain, per the cleanup phase.
func (s *Store) DeleteUnusedHeaders(belowBlockNum uint64) error {
	const op = "sql.DeleteUnusedHeaders"
	_, err := s.db.Exec(
		`DELETE FROM mining_headers WHERE block_num < $1 AND (is_vote_valid IS NULL OR is_vote_valid = false)`,
		belowBlockNum,
	)
	if err != nil {
		return errors.NewStorageError(op, "delete", err)
	}
	return nil
}
