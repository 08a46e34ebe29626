package postgres

import (
	"fmt"
	"time"

	"github.com/myschool/campus"
	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
//
// Each Migration runs once, in its own transaction; Key records that it ran.
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

// MigrateUp runs every migration in migrations not yet recorded in the migrations table, in order.
// It stops at the first failure.
func MigrateUp(db *gorm.DB, migrations []Migration) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", campus.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Raw("SELECT key FROM migrations").Scan(&ran).Error; err != nil {
		return fmt.Errorf("%w: fetching ran migrations: %s", campus.ErrUnexpected, err)
	}

	for _, m := range pending(ran, migrations) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s: %s", campus.ErrUnexpected, m.Key, err)
		}
	}

	return nil
}

// pending filters out of all the migrations whose keys are in ran.
func pending(ran []string, all []Migration) []Migration {
	done := make(map[string]bool, len(ran))
	for _, k := range ran {
		done[k] = true
	}

	var todo []Migration
	for _, m := range all {
		if !done[m.Key] {
			todo = append(todo, m)
		}
	}

	return todo
}
