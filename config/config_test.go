package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 4, cfg.Profile.MaxLegs)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"zero max legs", func(c *Config) { c.Profile.MaxLegs = 0 }, "max_legs must satisfy gte=1"},
		{"stake fraction above one", func(c *Config) { c.Profile.MaxStakeFraction = 1.5 }, "max_stake_fraction must satisfy lte=1"},
		{"bands out of order", func(c *Config) { c.Classifier.TenseAt = 90 }, "tense_at must satisfy ltfield=CriticalAt"},
		{"suggestion bands inverted", func(c *Config) { c.Suggestions.LowestRiskMax = 50 }, "lowest_risk_max"},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "postgres" }, "journal: type must satisfy oneof"},
		{"csv without file", func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }, "journal csv_file required for CSV type"},
		{"sqlite without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }, "journal db_path required for SQLite type"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port must satisfy gte=1"},
		{"bad timeout", func(c *Config) { c.Server.ReadTimeout = "soon" }, "server.read_timeout"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "level must satisfy oneof"},
		{"bad dna", func(c *Config) { c.Suggestions.DNA = &suggest.DNAProfile{MaxBaseFragility: -1} }, "dna profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Suggestions.DNA = &suggest.DNAProfile{
				Sports:   []string{"nfl"},
				BetTypes: []parlay.BetType{parlay.Spread, parlay.PlayerProp},
			}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: [unterminated"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  fragility_tolerance: 40\n  max_legs: 3\n  bankroll: 500\n  max_stake_fraction: 0.01\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Profile.FragilityTolerance)
	assert.Equal(t, Default().Classifier, cfg.Classifier)
	assert.Equal(t, 5, cfg.SuggestEngine().Limit)
}

const slipYAML = `
name: sunday
legs:
  - sport: nfl
    game_id: KC@BUF
    bet_type: player-prop
    selection: Kelce over 64.5 receiving yards
    player_id: kelce
    team_id: KC
    base_fragility: 6
    modifiers:
      weather:
        applied: true
        delta: 2
    tags: [volume]
  - sport: nfl
    game_id: KC@BUF
    bet_type: spread
    selection: Chiefs -2.5
    base_fragility: 5
candidates:
  - sport: nfl
    game_id: DAL@PHI
    bet_type: moneyline
    selection: Eagles ML
    base_fragility: 4
profile:
  fragility_tolerance: 45
  max_legs: 3
  bankroll: 200
  max_stake_fraction: 0.05
`

func TestLoadSlip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(slipYAML), 0644))

	slip, err := LoadSlip(path)
	require.NoError(t, err)
	require.Len(t, slip.Legs, 2)
	assert.Equal(t, parlay.PlayerProp, slip.Legs[0].BetType)
	assert.True(t, slip.Legs[0].Modifiers.Weather.Applied)
	assert.Equal(t, 2.0, slip.Legs[0].Modifiers.Weather.Delta)
	assert.Equal(t, []parlay.Tag{parlay.TagVolume}, slip.Legs[0].Tags)

	cfg := Default()
	req := slip.Request(cfg)
	assert.Equal(t, 45.0, req.Profile.FragilityTolerance)
	assert.Len(t, req.Candidates, 1)

	resp, err := cfg.Evaluator().EvaluateRequest(req)
	require.NoError(t, err)
	assert.Len(t, resp.Selections, 2)
	assert.Len(t, resp.Suggestions, 1)
}

func TestLoadSlipWithoutLegs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: empty\n"), 0644))
	_, err := LoadSlip(path)
	assert.Error(t, err)
}
