package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='evaluations'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "evaluations", name)
}

func TestSQLiteRecordAndGet(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	created := time.Date(2026, 1, 4, 18, 0, 0, 0, time.UTC)
	rec, err := NewRecord("sunday", testResponse(t), created)
	require.NoError(t, err)
	require.NoError(t, j.RecordEvaluation(rec))

	got, err := j.GetEvaluation(rec.EvalID)
	require.NoError(t, err)

	assert.Equal(t, rec.EvalID, got.EvalID)
	assert.Equal(t, rec.ParlayID, got.ParlayID)
	assert.Equal(t, rec.Name, got.Name)
	assert.True(t, rec.Created.Equal(got.Created))
	assert.Equal(t, rec.Legs, got.Legs)
	assert.InDelta(t, rec.FinalFragility, got.FinalFragility, 1e-9)
	assert.Equal(t, rec.CorrelationPenalty, got.CorrelationPenalty)
	assert.Equal(t, rec.State, got.State)
	assert.Equal(t, rec.Action, got.Action)
	assert.Equal(t, rec.Violations, got.Violations)
	assert.JSONEq(t, string(rec.Response), string(got.Response))
}

func TestSQLiteGetMissing(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetEvaluation("nope")
	assert.ErrorContains(t, err, "not found")
}

func TestSQLiteListBetweenAndByParlay(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	resp := testResponse(t)
	day := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{
		day.Add(-time.Hour),
		day.Add(2 * time.Hour),
		day.Add(20 * time.Hour),
		day.Add(25 * time.Hour),
	} {
		rec, err := NewRecord("slip", resp, ts)
		require.NoError(t, err)
		require.NoError(t, j.RecordEvaluation(rec))
	}

	recs, err := j.ListEvaluationsBetween(day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Created.Before(recs[1].Created))

	all, err := j.ListByParlay(resp.ParlayID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
