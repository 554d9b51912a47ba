package sqlite

import "database/sql"

// schema sets up the database. It runs on startup and is safe to repeat.
// Amounts are stored as decimal strings; dates as Unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    frequency TEXT NOT NULL,
    day_of_week INTEGER,
    day_of_month INTEGER NOT NULL DEFAULT 0,
    week_of_month INTEGER NOT NULL DEFAULT 0,
    month INTEGER NOT NULL DEFAULT 0,
    monthly_contribution TEXT NOT NULL,
    interest_rate TEXT NOT NULL,
    insurance_enabled INTEGER NOT NULL DEFAULT 0,
    insurance_rate TEXT NOT NULL DEFAULT '0',
    social_enabled INTEGER NOT NULL DEFAULT 0,
    social_per_member TEXT NOT NULL DEFAULT '0',
    late_fee TEXT NOT NULL DEFAULT '{}',
    cash_in_hand TEXT NOT NULL DEFAULT '0',
    cash_in_bank TEXT NOT NULL DEFAULT '0',
    current_period_id TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    family_size INTEGER NOT NULL,
    loan_balance TEXT NOT NULL DEFAULT '0',
    version INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE TABLE IF NOT EXISTS periods (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    sequence INTEGER NOT NULL,
    start_date INTEGER NOT NULL,
    end_date INTEGER,
    state TEXT NOT NULL,
    standing_at_start TEXT NOT NULL,
    cash_in_hand_at_start TEXT NOT NULL,
    cash_in_bank_at_start TEXT NOT NULL,
    social_fund_at_start TEXT NOT NULL,
    insurance_fund_at_start TEXT NOT NULL,
    totals TEXT,
    version INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    UNIQUE (group_id, sequence),
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE TABLE IF NOT EXISTS member_contributions (
    id TEXT PRIMARY KEY,
    period_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    due_contribution TEXT NOT NULL,
    due_interest TEXT NOT NULL,
    due_late_fee TEXT NOT NULL,
    due_social_fund TEXT NOT NULL,
    due_loan_insurance TEXT NOT NULL,
    paid_contribution TEXT NOT NULL,
    paid_interest TEXT NOT NULL,
    paid_late_fee TEXT NOT NULL,
    paid_social_fund TEXT NOT NULL,
    paid_loan_insurance TEXT NOT NULL,
    paid_loan_principal TEXT NOT NULL,
    total_paid TEXT NOT NULL,
    remaining TEXT NOT NULL,
    status TEXT NOT NULL,
    authoritative_status TEXT,
    days_late INTEGER NOT NULL DEFAULT 0,
    due_date INTEGER NOT NULL,
    version INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (period_id, member_id),
    FOREIGN KEY (period_id) REFERENCES periods(id) ON DELETE CASCADE,
    FOREIGN KEY (member_id) REFERENCES members(id)
);

CREATE TABLE IF NOT EXISTS cash_allocations (
    id TEXT PRIMARY KEY,
    period_id TEXT NOT NULL,
    contribution_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    idempotency_key TEXT,
    amount TEXT NOT NULL,
    hand TEXT NOT NULL,
    bank TEXT NOT NULL,
    mode TEXT NOT NULL,
    breakdown TEXT NOT NULL,
    reversed INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (period_id) REFERENCES periods(id),
    FOREIGN KEY (contribution_id) REFERENCES member_contributions(id)
);

CREATE TABLE IF NOT EXISTS cash_movements (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    period_id TEXT NOT NULL,
    member_id TEXT,
    kind TEXT NOT NULL,
    pool TEXT NOT NULL,
    amount TEXT NOT NULL,
    note TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (period_id) REFERENCES periods(id)
);

CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id);
CREATE INDEX IF NOT EXISTS idx_periods_group_id ON periods(group_id);
CREATE INDEX IF NOT EXISTS idx_contributions_period_id ON member_contributions(period_id);
CREATE INDEX IF NOT EXISTS idx_allocations_period_id ON cash_allocations(period_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_allocations_idempotency_key
    ON cash_allocations(idempotency_key) WHERE idempotency_key IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_movements_period_id ON cash_movements(period_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
