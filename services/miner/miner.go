// Package miner runs the mining control loop: a single cooperative
// cycle over six ordered phases (sync, vote, block-verify, PoW-check,
// build, cleanup), restarting on the first chain-advancing mutation of
// each iteration.
package miner

import (
	"context"
	"time"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
	sqlstore "github.com/earthbucks/ebxd/stores/mining/sql"
	"github.com/earthbucks/ebxd/ulogger"
	"github.com/ordishs/gocore"
)

// VoteOracle decides whether a block that has passed verification
// should be accepted into the longest chain. The decision policy
// itself is an external collaborator: this core only defines the
// shape of the input.
type VoteOracle func(h *sqlstore.HeaderRow) (bool, error)

// Config carries the miner's identity and policy parameters.
type Config struct {
	Domain       string
	CoinbasePkh  *model.Pkh
	TickInterval time.Duration
}

// Miner runs the six-phase mining loop against a persistence Store.
type Miner struct {
	logger     ulogger.Logger
	store      *sqlstore.Store
	config     Config
	voteOracle VoteOracle

	chain            *model.HeaderChain
	buildingBlockNum uint64

	metrics *metrics
}

// NewMiner builds a Miner. If config.TickInterval is zero it is read
// from the miner_tickInterval setting, defaulting to 1 second.
func NewMiner(logger ulogger.Logger, store *sqlstore.Store, config Config, voteOracle VoteOracle) *Miner {
	if config.TickInterval == 0 {
		config.TickInterval, _ = gocore.Config().GetDuration("miner_tickInterval", 1*time.Second)
	}
	return &Miner{
		logger:     logger,
		store:      store,
		config:     config,
		voteOracle: voteOracle,
		chain:      model.NewHeaderChain(nil),
		metrics:    newMetrics(),
	}
}

// Start loads the persisted chain and runs the loop until ctx is
// canceled. Any persistence or codec error inside an iteration is
// fatal and aborts the loop.
func (m *Miner) Start(ctx context.Context) error {
	const op = "miner.Start"

	chain, err := m.store.GetLongestChain()
	if err != nil {
		return errors.NewStorageError(op, "load initial chain", err)
	}
	m.chain = chain
	m.buildingBlockNum = uint64(chain.Len())

	ticker := time.NewTicker(m.config.TickInterval)
	defer ticker.Stop()

	m.logger.Infof("starting mining loop at height %d, tick %s", m.buildingBlockNum, m.config.TickInterval)

	for {
		select {
		case <-ctx.Done():
			m.logger.Infof("stopping mining loop: %v", ctx.Err())
			return nil
		case <-ticker.C:
			if err := m.runIteration(ctx); err != nil {
				m.metrics.fatalErrors.Inc()
				m.logger.Errorf("fatal error in mining loop: %v", err)
				return err
			}
		}
	}
}

// runIteration runs the six ordered phases, stopping early as soon as
// one produces a chain-advancing mutation.
func (m *Miner) runIteration(ctx context.Context) error {
	m.metrics.iterations.Inc()
	m.metrics.candidateHeight.Set(float64(m.buildingBlockNum))

	advanced, err := m.syncPhase()
	if err != nil {
		return err
	}
	if advanced {
		m.metrics.phaseAdvances.WithLabelValues("sync").Inc()
		return nil
	}

	advanced, err = m.votePhase(ctx)
	if err != nil {
		return err
	}
	if advanced {
		m.metrics.phaseAdvances.WithLabelValues("vote").Inc()
		return nil
	}

	advanced, err = m.blockVerifyPhase(ctx)
	if err != nil {
		return err
	}
	if advanced {
		m.metrics.phaseAdvances.WithLabelValues("block_verify").Inc()
		return nil
	}

	advanced, err = m.powCheckPhase(ctx)
	if err != nil {
		return err
	}
	if advanced {
		m.metrics.phaseAdvances.WithLabelValues("pow_check").Inc()
		return nil
	}

	if err := m.buildPhase(ctx); err != nil {
		return err
	}
	m.metrics.phaseAdvances.WithLabelValues("build").Inc()

	return m.cleanupPhase()
}

// syncPhase reconciles the in-memory chain tip with persistence. It is
// never itself a chain-advancing mutation.
func (m *Miner) syncPhase() (bool, error) {
	const op = "miner.syncPhase"

	tipID, err := m.store.GetChainTipID()
	if err != nil {
		return false, errors.NewStorageError(op, "get chain tip id", err)
	}
	if tipID != m.chain.TipID() {
		chain, err := m.store.GetLongestChain()
		if err != nil {
			return false, errors.NewStorageError(op, "reload chain", err)
		}
		m.chain = chain
	}
	m.buildingBlockNum = uint64(m.chain.Len())
	return false, nil
}

// votePhase records a vote decision for each verified-but-unvoted
// header in turn and, on the first acceptance, appends that header to
// the persisted longest chain and stops. Vote acceptance and the chain append are committed in one
// transaction.
func (m *Miner) votePhase(ctx context.Context) (bool, error) {
	const op = "miner.votePhase"

	rows, err := m.store.GetVotingHeaders()
	if err != nil {
		return false, errors.NewStorageError(op, "get voting headers", err)
	}

	for _, row := range rows {
		voteValid, err := m.voteOracle(row)
		if err != nil {
			return false, errors.NewConsensusError(op, "vote oracle", err)
		}

		if !voteValid {
			if err := m.store.UpdateIsVoteValid(row.Header.ID(), false); err != nil {
				return false, errors.NewStorageError(op, "update vote verdict", err)
			}
			continue
		}

		tx, err := m.store.DB().BeginTx(ctx, nil)
		if err != nil {
			return false, errors.NewStorageError(op, "begin vote transaction", err)
		}
		if err := m.store.SaveFromVotedHeader(tx, row.Header); err != nil {
			_ = tx.Rollback()
			return false, err
		}
		if _, err := tx.Exec(`UPDATE mining_headers SET is_vote_valid = true WHERE header_id = $1`, headerIDSlice(row.Header)); err != nil {
			_ = tx.Rollback()
			return false, errors.NewStorageError(op, "update vote verdict", err)
		}
		if err := tx.Commit(); err != nil {
			return false, errors.NewStorageError(op, "commit vote transaction", err)
		}

		m.chain = model.NewHeaderChain(append(append([]*model.Header{}, m.chain.Headers...), row.Header))
		return true, nil
	}

	return false, nil
}

func headerIDSlice(h *model.Header) []byte {
	id := h.ID()
	return id[:]
}

// blockVerifyPhase verifies the body of each PoW-accepted but
// unverified header in turn and persists each verdict, stopping at the
// first valid block.
func (m *Miner) blockVerifyPhase(ctx context.Context) (bool, error) {
	const op = "miner.blockVerifyPhase"

	rows, err := m.store.GetValidatedHeaders()
	if err != nil {
		return false, errors.NewStorageError(op, "get validated headers", err)
	}

	for _, row := range rows {
		txs, err := m.store.GetRawTxsForMerkleRootInOrder(row.Header.MerkleRoot)
		if err != nil {
			return false, err
		}
		txOuts, err := m.store.GetUnspentOutputMapForTxs(txs)
		if err != nil {
			return false, err
		}

		block := model.NewBlock(row.Header, txs)
		verifier := model.NewBlockVerifier(block, txOuts, m.chain)
		valid, err := verifier.IsValidNow()
		if err != nil {
			return false, errors.NewConsensusError(op, "verify block", err)
		}

		if err := m.store.UpdateIsBlockValid(row.Header.ID(), valid); err != nil {
			return false, errors.NewStorageError(op, "update block verdict", err)
		}
		if valid {
			return true, nil
		}
	}

	return false, nil
}

// powCheckPhase checks full chain validity at the current wall clock
// for each unchecked candidate header in turn and persists each
// verdict, stopping at the first valid header.
func (m *Miner) powCheckPhase(_ context.Context) (bool, error) {
	const op = "miner.powCheckPhase"

	rows, err := m.store.GetCandidateHeaders()
	if err != nil {
		return false, errors.NewStorageError(op, "get candidate headers", err)
	}

	for _, row := range rows {
		valid := m.chain.NewHeaderIsValidNow(row.Header)
		if err := m.store.UpdateIsHeaderValid(row.Header.ID(), valid); err != nil {
			return false, errors.NewStorageError(op, "update header verdict", err)
		}
		if valid {
			return true, nil
		}
	}

	return false, nil
}

// buildPhase constructs the coinbase transaction, computes the Merkle
// root and proofs over the (currently empty-mempool) block, and
// derives and persists the next candidate header.
func (m *Miner) buildPhase(ctx context.Context) error {
	const op = "miner.buildPhase"

	coinbaseTx, err := m.chain.GetNextCoinbaseTx(m.config.CoinbasePkh, m.config.Domain)
	if err != nil {
		return errors.NewConsensusError(op, "build coinbase tx", err)
	}

	unconfirmedTxs := []*model.Tx{coinbaseTx} // mempool is empty in this core
	tree := model.NewMerkleTree(unconfirmedTxs)

	if err := m.store.ParseAndInsertRawTx(coinbaseTx, tree.Root, 0, m.config.Domain, nil); err != nil {
		return errors.NewStorageError(op, "insert coinbase tx", err)
	}

	sqlTx, err := m.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError(op, "begin proof transaction", err)
	}
	for _, proof := range tree.Proofs {
		if err := m.store.UpsertMerkleProof(sqlTx, proof, tree.Root); err != nil {
			_ = sqlTx.Rollback()
			return err
		}
	}
	if err := sqlTx.Commit(); err != nil {
		return errors.NewStorageError(op, "commit proof transaction", err)
	}

	newTimestamp := model.GetNewTimestamp()
	nextHeader, err := m.chain.GetNextHeader(tree.Root, newTimestamp)
	if err != nil {
		return errors.NewConsensusError(op, "derive next header", err)
	}

	if err := m.store.SaveHeader(nextHeader); err != nil {
		return errors.NewStorageError(op, "save candidate header", err)
	}

	return nil
}

// cleanupPhase deletes candidate headers that fell behind the current
// building height without ever joining the longest chain.
func (m *Miner) cleanupPhase() error {
	const op = "miner.cleanupPhase"
	if err := m.store.DeleteUnusedHeaders(m.buildingBlockNum); err != nil {
		return errors.NewStorageError(op, "delete unused headers", err)
	}
	return nil
}
