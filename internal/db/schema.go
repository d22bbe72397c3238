package db

// SchemaSQL is the complete schema for a finsight database.
//
// This is the single source of truth for the schema. Repository tests load it
// through GetSchemaSQL() so a column referenced by adapter code but missing
// here fails immediately with "no such column".
//
// Timestamps are written as fixed-width UTC text (see adapters/sqlite) so that
// range predicates compare correctly as strings. Amounts are decimal text.
const SchemaSQL = `
-- Canonical transactions, append-only
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	transaction_date DATETIME NOT NULL,
	amount TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('income', 'expense')),
	category TEXT NOT NULL DEFAULT 'other',
	description TEXT,
	source TEXT NOT NULL,
	raw_data TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_tenant_date ON transactions(tenant_id, transaction_date);

-- Health snapshots, one per monitoring run
CREATE TABLE IF NOT EXISTS health_snapshots (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	score REAL NOT NULL,
	metrics TEXT NOT NULL,
	risk_flags TEXT NOT NULL,
	calculated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_health_snapshots_tenant ON health_snapshots(tenant_id, calculated_at);

-- Risk alerts for medium and above flags
CREATE TABLE IF NOT EXISTS risk_alerts (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	alert_type TEXT NOT NULL,
	severity TEXT NOT NULL CHECK(severity IN ('low', 'medium', 'high', 'critical')),
	message TEXT NOT NULL,
	metadata TEXT,
	detected_at DATETIME NOT NULL,
	resolved INTEGER NOT NULL DEFAULT 0,
	resolved_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_risk_alerts_tenant ON risk_alerts(tenant_id, detected_at);

-- Forecast points, grouped per forecasting run by batch_id
CREATE TABLE IF NOT EXISTS forecast_points (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	batch_id TEXT NOT NULL,
	forecast_date DATE NOT NULL,
	predicted_amount REAL NOT NULL,
	lower_bound REAL NOT NULL,
	upper_bound REAL NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecast_points_tenant ON forecast_points(tenant_id, created_at);
CREATE INDEX IF NOT EXISTS idx_forecast_points_batch ON forecast_points(batch_id);

-- Pipeline run audit trail
CREATE TABLE IF NOT EXISTS pipeline_runs (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	stage_label TEXT NOT NULL,
	query_text TEXT,
	inputs TEXT NOT NULL,
	outputs TEXT,
	status TEXT NOT NULL CHECK(status IN ('pending', 'running', 'completed', 'failed')) DEFAULT 'running',
	error TEXT,
	started_at DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_pipeline_runs_tenant ON pipeline_runs(tenant_id, started_at);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
