package postgres

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	})
}

// MigrateUp runs, in order, each of migrations whose key has not yet been recorded in the migrations table.
//
// MigrateUp stops at the first migration that fails.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
		return fmt.Errorf("creating %s schema: %w", schema, err)
	}

	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var ran []string
	if err := db.Table("migrations").Pluck("key", &ran).Error; err != nil {
		return fmt.Errorf("fetching ran migrations: %w", err)
	}

	for _, m := range pending(ran, migrations) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("running migration %s: %w", m.Key, err)
		}
	}

	return nil
}

// pending filters all down to the migrations whose keys are not in ran.
func pending(ran []string, all []Migration) []Migration {
	seen := make(map[string]bool, len(ran))
	for _, k := range ran {
		seen[k] = true
	}

	toRun := make([]Migration, 0, len(all))
	for _, m := range all {
		if !seen[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun
}
