package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "evals.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	rec, err := NewRecord("sunday", testResponse(t), time.Date(2026, 1, 4, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, j.RecordEvaluation(rec))
	require.NoError(t, j.Close())

	fh, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fh.Close() })

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, rec.EvalID, rows[1][0])
	assert.Equal(t, "sunday", rows[1][2])
	assert.Equal(t, "2026-01-04T18:00:00Z", rows[1][3])
	assert.Equal(t, "2", rows[1][4])
	assert.Equal(t, "max_legs_exceeded", rows[1][11])
}

func TestCSVJournalAppendsAcrossOpens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "evals.csv")
	resp := testResponse(t)

	var ids []string
	for _, name := range []string{"first", "second"} {
		j, err := NewCSV(path)
		require.NoError(t, err)
		rec, err := NewRecord(name, resp, time.Now())
		require.NoError(t, err)
		require.NoError(t, j.RecordEvaluation(rec))
		require.NoError(t, j.Close())
		ids = append(ids, rec.EvalID)
	}

	fh, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fh.Close() })

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, ids[0], rows[1][0])
	assert.Equal(t, "first", rows[1][2])
	assert.Equal(t, ids[1], rows[2][0])
	assert.Equal(t, "second", rows[2][2])
}
