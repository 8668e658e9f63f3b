package sql

import "database/sql"

// schema returns the CREATE TABLE statements for engine. Postgres uses
// BYTEA for binary columns; SQLite uses its untyped BLOB affinity.
func schema(engine Engine) []string {
	blobType := "BLOB"
	if engine == Postgres {
		blobType = "BYTEA"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS mining_headers (
			header_id ` + blobType + ` PRIMARY KEY,
			encoded ` + blobType + ` NOT NULL,
			block_num BIGINT NOT NULL,
			is_header_valid BOOLEAN,
			is_block_valid BOOLEAN,
			is_vote_valid BOOLEAN
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mining_headers_block_num ON mining_headers (block_num)`,

		`CREATE TABLE IF NOT EXISTS mining_longest_chain (
			chain_index BIGINT PRIMARY KEY,
			header_id ` + blobType + ` NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS mining_raw_transactions (
			tx_id ` + blobType + ` PRIMARY KEY,
			merkle_root ` + blobType + ` NOT NULL,
			tx_index BIGINT NOT NULL,
			raw ` + blobType + ` NOT NULL,
			domain TEXT NOT NULL,
			ebx_address TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mining_raw_tx_merkle_root ON mining_raw_transactions (merkle_root, tx_index)`,

		`CREATE TABLE IF NOT EXISTS mining_merkle_proofs (
			tx_id ` + blobType + ` PRIMARY KEY,
			merkle_root ` + blobType + ` NOT NULL,
			leaf_index BIGINT NOT NULL,
			path ` + blobType + ` NOT NULL,
			is_right ` + blobType + ` NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS mining_unspent_outputs (
			tx_id ` + blobType + `,
			out_index BIGINT,
			value BIGINT NOT NULL,
			script ` + blobType + ` NOT NULL,
			PRIMARY KEY (tx_id, out_index)
		)`,
	}
}

func applySchema(db *sql.DB, engine Engine) error {
	for _, stmt := range schema(engine) {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
