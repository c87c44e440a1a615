package store

const Schema = `
CREATE TABLE IF NOT EXISTS lookups (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL,
	expression TEXT NOT NULL,
	query TEXT NOT NULL,
	outcome TEXT NOT NULL,
	recording_ids TEXT,  -- JSON array
	result_count INTEGER DEFAULT 0,
	status_code INTEGER DEFAULT 0,
	duration_ms INTEGER DEFAULT 0,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at);
CREATE INDEX IF NOT EXISTS idx_lookups_outcome ON lookups(outcome);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
