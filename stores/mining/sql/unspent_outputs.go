package sql

import (
	"database/sql"
	"sync"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
	"golang.org/x/sync/errgroup"
)

// GetUnspentByTxIDAndOutIndex looks up a single unspent output, or nil
// if it is absent (spent or never existed).
func (s *Store) GetUnspentByTxIDAndOutIndex(txID [32]byte, outIndex uint32) (*model.TxOutput, error) {
	const op = "sql.GetUnspentByTxIDAndOutIndex"
	var value int64
	var script []byte
	err := s.db.QueryRow(
		`SELECT value, script FROM mining_unspent_outputs WHERE tx_id = $1 AND out_index = $2`,
		txID[:], outIndex,
	).Scan(&value, &script)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError(op, "query", err)
	}
	return model.NewTxOutput(uint64(value), script), nil
}

// GetUnspentOutputMapForTxs builds a TxOutputMap covering every input
// referenced by txs, the shape the block verifier consumes directly.
// Lookups fan out across an errgroup since each is an independent
// connection-pool round trip, grounded on services/coinbase's
// errgroup.WithContext fan-out idiom.
func (s *Store) GetUnspentOutputMapForTxs(txs []*model.Tx) (*model.TxOutputMap, error) {
	type key struct {
		txID  [32]byte
		index uint32
	}

	var keys []key
	for _, tx := range txs {
		for _, in := range tx.Inputs {
			keys = append(keys, key{in.PrevTxID, in.PrevOutIndex})
		}
	}

	m := model.NewTxOutputMap()
	var mu sync.Mutex

	g := new(errgroup.Group)
	for _, k := range keys {
		k := k
		g.Go(func() error {
			out, err := s.GetUnspentByTxIDAndOutIndex(k.txID, k.index)
			if err != nil {
				return err
			}
			if out != nil {
				mu.Lock()
				m.Add(k.txID, k.index, out)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m, nil
}

// AddUnspentOutput registers a new spendable output, called when a
// transaction's outputs become part of the persisted state.
func (s *Store) AddUnspentOutput(txID [32]byte, outIndex uint32, out *model.TxOutput) error {
	const op = "sql.AddUnspentOutput"
	_, err := s.db.Exec(
		`INSERT INTO mining_unspent_outputs (tx_id, out_index, value, script) VALUES ($1, $2, $3, $4)`,
		txID[:], outIndex, int64(out.Value), []byte(out.Script),
	)
	if err != nil {
		if isUniqueViolation(s.engine, err) {
			return nil
		}
		return errors.NewStorageError(op, "insert", err)
	}
	return nil
}

// SpendOutput removes an output from the unspent set.
func (s *Store) SpendOutput(txID [32]byte, outIndex uint32) error {
	const op = "sql.SpendOutput"
	_, err := s.db.Exec(
		`DELETE FROM mining_unspent_outputs WHERE tx_id = $1 AND out_index = $2`,
		txID[:], outIndex,
	)
	if err != nil {
		return errors.NewStorageError(op, "delete", err)
	}
	return nil
}
