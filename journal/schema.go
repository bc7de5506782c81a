package journal

const Schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	eval_id TEXT PRIMARY KEY,
	parlay_id TEXT NOT NULL,
	name TEXT NOT NULL,
	created DATETIME NOT NULL,
	legs INTEGER NOT NULL,
	final_fragility REAL NOT NULL,
	correlation_penalty INTEGER NOT NULL,
	multiplier REAL NOT NULL,
	state TEXT NOT NULL,
	action TEXT NOT NULL,
	stake_cap REAL NOT NULL,
	violations TEXT NOT NULL,
	response BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created);
CREATE INDEX IF NOT EXISTS idx_evaluations_parlay ON evaluations(parlay_id);
`
