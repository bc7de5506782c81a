package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectEvaluation = `
	SELECT eval_id, parlay_id, name, created, legs, final_fragility, correlation_penalty,
	       multiplier, state, action, stake_cap, violations, response
	FROM evaluations`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(s scanner) (EvaluationRecord, error) {
	var (
		rec        EvaluationRecord
		violations string
	)
	err := s.Scan(
		&rec.EvalID,
		&rec.ParlayID,
		&rec.Name,
		&rec.Created,
		&rec.Legs,
		&rec.FinalFragility,
		&rec.CorrelationPenalty,
		&rec.Multiplier,
		&rec.State,
		&rec.Action,
		&rec.StakeCap,
		&violations,
		&rec.Response,
	)
	rec.Violations = splitCodes(violations)
	return rec, err
}

// GetEvaluation returns a single evaluation by eval id.
func (j *SQLite) GetEvaluation(evalID string) (EvaluationRecord, error) {
	row := j.db.QueryRow(selectEvaluation+` WHERE eval_id = ?`, evalID)
	rec, err := scanEvaluation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EvaluationRecord{}, fmt.Errorf("evaluation %q not found", evalID)
		}
		return EvaluationRecord{}, err
	}
	return rec, nil
}

// ListEvaluationsBetween returns evaluations created within [start, end).
func (j *SQLite) ListEvaluationsBetween(start, end time.Time) ([]EvaluationRecord, error) {
	return j.list(selectEvaluation+`
		WHERE created >= ? AND created < ?
		ORDER BY created ASC, eval_id ASC`, start.UTC(), end.UTC())
}

// ListByParlay returns every evaluation of the same parlay, oldest first.
func (j *SQLite) ListByParlay(parlayID string) ([]EvaluationRecord, error) {
	return j.list(selectEvaluation+`
		WHERE parlay_id = ?
		ORDER BY created ASC, eval_id ASC`, parlayID)
}

func (j *SQLite) list(query string, args ...any) ([]EvaluationRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EvaluationRecord
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
