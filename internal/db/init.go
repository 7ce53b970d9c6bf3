package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq"

	"inkwell/internal/lock"
)

const (
	baseDir = "./migrations"
	schema  = "inkwell_schema"
)

// Open connects to the shared relational store and verifies the
// connection.
func Open(postgresURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Init runs schema initialization and migration scripts. A Postgres
// advisory lock keeps concurrent instances from racing the migration;
// everything else in this subsystem runs without one.
//
// The function performs the following steps:
//  1. Acquires the migration advisory lock.
//  2. Creates the schema if it does not exist.
//  3. Reads and executes SQL scripts from baseDir in name order.
func Init(ctx context.Context, db *sql.DB, distributedLock lock.DistributedLockManager) error {
	if err := distributedLock.Acquire(ctx, lock.MigrationLock); err != nil {
		return err
	}
	defer distributedLock.Release(ctx, lock.MigrationLock)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return err
	}

	scripts, err := readSQLScripts()
	if err != nil {
		return err
	}
	for _, script := range scripts {
		log.Println("applying migration:", script.name)
		if _, err := db.ExecContext(ctx, script.sql); err != nil {
			return fmt.Errorf("migration %s: %w", script.name, err)
		}
	}

	return nil
}

type sqlScript struct {
	name string
	sql  string
}

func readSQLScripts() ([]sqlScript, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	scripts := make([]sqlScript, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(baseDir, name))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, sqlScript{name: name, sql: string(content)})
	}

	return scripts, nil
}
