package persistence

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/colony-sim/internal/engine"
	"github.com/talgya/colony-sim/internal/entropy"
	"github.com/talgya/colony-sim/internal/ledger"
	"github.com/talgya/colony-sim/internal/scenario"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "colonysim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func quietSimulator() *engine.Simulator {
	return engine.NewSimulator(engine.DefaultConfig(), nil).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLedger_SaveLoadReplay(t *testing.T) {
	db := openTestDB(t)
	sim := quietSimulator()
	p := scenario.Params{ShockProbability: 0.1234567890123456, SelectionCoefficient: 1.05, ShockSeverity: 0.25}

	orig, err := sim.RunYears(context.Background(), p, 75, entropy.NewDeterministic(99))
	require.NoError(t, err)

	id, err := db.SaveLedger(orig.Ledger, orig.Outcome())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	loaded, err := db.LoadLedger(id)
	require.NoError(t, err)
	assert.Equal(t, orig.Ledger.Params(), loaded.Params())
	assert.Equal(t, orig.Ledger.Seeds(), loaded.Seeds())

	replayed, err := sim.Replay(context.Background(), loaded)
	require.NoError(t, err)
	assert.Equal(t, orig.Series, replayed.Series)
}

func TestSaveLedger_RejectsOpenLedger(t *testing.T) {
	db := openTestDB(t)
	l := ledger.New(scenario.Params{ShockProbability: 0.5, SelectionCoefficient: 1, ShockSeverity: 0.5})
	require.NoError(t, l.Record(0, 1))

	_, err := db.SaveLedger(l, engine.ColonyWin)
	assert.Error(t, err)
}

func TestLoadLedger_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LoadLedger("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListLedgers(t *testing.T) {
	db := openTestDB(t)
	p := scenario.Params{ShockProbability: 0.5, SelectionCoefficient: 1, ShockSeverity: 0.5}

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.SaveLedger(ledger.FromSeeds(p, []int64{int64(i), 2, 3}), engine.LoneWin)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := db.ListLedgers(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID, "newest first")
	assert.Equal(t, 3, list[0].Years)
	assert.Equal(t, "lone", list[0].Outcome)
	assert.Equal(t, p, list[0].Params)
	assert.False(t, list[0].Created().IsZero())
}

func TestSweep_SaveLoad(t *testing.T) {
	db := openTestDB(t)
	seed := int64(3)
	req := engine.SweepRequest{
		Trials:               4,
		Probabilities:        []float64{0.9, 0.1, 0.5},
		SelectionCoefficient: 1,
		ShockSeverity:        0.5,
		Seed:                 &seed,
	}
	table := &engine.Table{RootSeed: seed, Rows: []engine.Row{
		{Probability: 0.9, ColonyWins: 1, Trials: 4, Fraction: 0.25},
		{Probability: 0.1, ColonyWins: 4, Trials: 4, Fraction: 1},
		{Probability: 0.5, ColonyWins: 2, Trials: 4, Fraction: 0.5},
	}}

	id, err := db.SaveSweep(req, table)
	require.NoError(t, err)

	loaded, err := db.LoadSweep(id)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, loaded.Rows)
	assert.Equal(t, seed, loaded.RootSeed)

	_, err = db.LoadSweep("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetMeta("last_sweep")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveMeta("last_sweep", "abc"))
	require.NoError(t, db.SaveMeta("last_sweep", "def"))
	v, err := db.GetMeta("last_sweep")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
}
