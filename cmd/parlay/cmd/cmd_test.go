package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/parlay/config"
	"github.com/rustyeddy/parlay/evaluation"
)

// Commands share package-level flag state, so these tests run serially.

const slipYAML = `name: sunday
legs:
  - sport: nfl
    game_id: KC@BUF
    bet_type: player_prop
    selection: Kelce over 64.5 receiving yards
    player_id: kelce
    base_fragility: 6
  - sport: nfl
    game_id: KC@BUF
    bet_type: total
    selection: Over 47.5
    base_fragility: 4
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		cfgFile, logLevel = "", ""
		evaluateFormat, evaluateJournal = "json", false
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEvaluateJSON(t *testing.T) {
	dir := t.TempDir()
	slip := writeFile(t, dir, "sunday.yaml", slipYAML)

	out, err := execute(t, "evaluate", "--log-level", "error", slip)
	require.NoError(t, err)

	var resp evaluation.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Selections, 2)
	assert.NotEmpty(t, resp.ParlayID)
}

func TestEvaluateManyKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", slipYAML)
	b := writeFile(t, dir, "b.json", `{"legs":[{"sport":"nba","game_id":"DEN@LAL","bet_type":"moneyline","selection":"Nuggets ML","base_fragility":3}]}`)

	out, err := execute(t, "evaluate", "--log-level", "error", a, b)
	require.NoError(t, err)

	var got []namedResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "sunday", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Len(t, got[1].Response.Selections, 1)
}

func TestEvaluateOrgAndJournal(t *testing.T) {
	dir := t.TempDir()
	slip := writeFile(t, dir, "sunday.yaml", slipYAML)

	cfg := config.Default()
	cfg.Journal.DBPath = filepath.Join(dir, "j.sqlite")
	cfgPath := filepath.Join(dir, "parlay.yaml")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	out, err := execute(t, "evaluate", "-c", cfgPath, "--log-level", "error", "--format", "org", "--journal", slip)
	require.NoError(t, err)
	assert.Contains(t, out, "* PARLAY: sunday (")

	out, err = execute(t, "journal", "--db", cfg.Journal.DBPath, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "** Parlay: sunday")
}

func TestEvaluateErrors(t *testing.T) {
	dir := t.TempDir()
	slip := writeFile(t, dir, "sunday.yaml", slipYAML)

	_, err := execute(t, "evaluate", "--format", "xml", slip)
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "evaluate", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parlay.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Journal: sqlite")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "parlay version "+version)
}

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2026-01-04")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-04T00:00:00Z", start.Format(time.RFC3339))
	assert.Equal(t, "2026-01-05T00:00:00Z", end.Format(time.RFC3339))

	_, _, err = dayBounds(time.UTC, "yesterday")
	assert.Error(t, err)
}
