package sql

import (
	"net/url"
	"testing"

	"github.com/earthbucks/ebxd/model"
	"github.com/earthbucks/ebxd/ulogger"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	u, err := url.Parse("sqlitememory://test")
	require.NoError(t, err)
	store, err := New(ulogger.TestLogger(nil), u)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGetHeaderRoundTrip(t *testing.T) {
	store := newTestStore(t)

	h := &model.Header{Version: 1, Timestamp: 100, BlockNum: 0}
	copy(h.Target[:], model.InitialTarget())

	require.NoError(t, store.SaveHeader(h))

	got, err := store.GetHeader(h.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, h.Encode(), got.Header.Encode())
	require.Nil(t, got.IsHeaderValid)
}

func TestSaveHeaderIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	h := &model.Header{Version: 1, Timestamp: 100, BlockNum: 0}
	require.NoError(t, store.SaveHeader(h))
	require.NoError(t, store.SaveHeader(h))
}

func TestHeaderStatusTransitions(t *testing.T) {
	store := newTestStore(t)
	h := &model.Header{Version: 1, Timestamp: 100, BlockNum: 0}
	require.NoError(t, store.SaveHeader(h))

	candidates, err := store.GetCandidateHeaders()
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	require.NoError(t, store.UpdateIsHeaderValid(h.ID(), true))
	validated, err := store.GetValidatedHeaders()
	require.NoError(t, err)
	require.Len(t, validated, 1)

	require.NoError(t, store.UpdateIsBlockValid(h.ID(), true))
	voting, err := store.GetVotingHeaders()
	require.NoError(t, err)
	require.Len(t, voting, 1)

	require.NoError(t, store.UpdateIsVoteValid(h.ID(), true))
	voting, err = store.GetVotingHeaders()
	require.NoError(t, err)
	require.Len(t, voting, 0)
}

func TestUnspentOutputLifecycle(t *testing.T) {
	store := newTestStore(t)
	txID := [32]byte{0x01}
	out := model.NewTxOutput(500, model.Script{0x01, 0x02})

	require.NoError(t, store.AddUnspentOutput(txID, 0, out))

	got, err := store.GetUnspentByTxIDAndOutIndex(txID, 0)
	require.NoError(t, err)
	require.Equal(t, out.Value, got.Value)

	require.NoError(t, store.SpendOutput(txID, 0))
	got, err = store.GetUnspentByTxIDAndOutIndex(txID, 0)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRawTxAndMerkleRootOrdering(t *testing.T) {
	store := newTestStore(t)
	root := [32]byte{0xaa}

	tx0 := model.NewTx(1, nil, []*model.TxOutput{model.NewTxOutput(1, model.Script{})}, 0)
	tx1 := model.NewTx(1, nil, []*model.TxOutput{model.NewTxOutput(2, model.Script{})}, 0)

	require.NoError(t, store.ParseAndInsertRawTx(tx0, root, 0, "example.com", nil))
	require.NoError(t, store.ParseAndInsertRawTx(tx1, root, 1, "example.com", nil))

	txs, err := store.GetRawTxsForMerkleRootInOrder(root)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, tx0.ID(), txs[0].ID())
	require.Equal(t, tx1.ID(), txs[1].ID())
}
