package container

import "database/sql"

// Option configures Container creation. Used for testing and
// customization.
type Option func(*containerConfig)

type containerConfig struct {
	db             *sql.DB
	skipMigrations bool
}

// WithDB injects an existing database connection instead of opening one
// from the config. Useful for testing.
func WithDB(db *sql.DB) Option {
	return func(c *containerConfig) {
		c.db = db
	}
}

// WithoutMigrations skips the migration pass. Useful for tests that
// manage schema themselves.
func WithoutMigrations() Option {
	return func(c *containerConfig) {
		c.skipMigrations = true
	}
}
