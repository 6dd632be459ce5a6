package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS budgets (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    category_id   TEXT NOT NULL,
    wallet_id     TEXT,
    amount        TEXT NOT NULL,
    period_type   TEXT NOT NULL,
    period_start  TEXT NOT NULL,
    period_end    TEXT NOT NULL,
    is_active     INTEGER NOT NULL DEFAULT 1,
    limit_type    TEXT NOT NULL DEFAULT '',
    notes         TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id            TEXT PRIMARY KEY,
    wallet_id     TEXT NOT NULL,
    category_id   TEXT NOT NULL,
    type          TEXT NOT NULL,
    amount        TEXT NOT NULL,
    tx_date       TEXT NOT NULL,
    excluded      INTEGER NOT NULL DEFAULT 0,
    note          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS categories (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    kind          TEXT NOT NULL DEFAULT 'expense'
);

CREATE TABLE IF NOT EXISTS meta (
    key           TEXT PRIMARY KEY,
    value         BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_budgets_category ON budgets(category_id);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id, tx_date);
CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_id);
`
