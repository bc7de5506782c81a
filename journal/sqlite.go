package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; the server records from many goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordEvaluation(r EvaluationRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO evaluations
		(eval_id, parlay_id, name, created, legs, final_fragility, correlation_penalty,
		 multiplier, state, action, stake_cap, violations, response)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EvalID, r.ParlayID, r.Name, r.Created, r.Legs, r.FinalFragility, r.CorrelationPenalty,
		r.Multiplier, r.State, r.Action, r.StakeCap, joinCodes(r.Violations), r.Response,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
