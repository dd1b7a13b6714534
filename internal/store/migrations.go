package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS favorites (
	property_id TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	price       REAL NOT NULL DEFAULT 0,
	address     TEXT NOT NULL DEFAULT '',
	saved_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS saved_searches (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	query       TEXT NOT NULL DEFAULT '',
	location_id TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT '',
	min_price   REAL NOT NULL DEFAULT 0,
	max_price   REAL NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_saved_searches_name ON saved_searches(name);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
