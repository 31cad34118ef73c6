// Package database manages the SQLite connection and schema migrations.
//
// It opens the database with foreign keys enforced, WAL mode optional, and a
// single-writer connection pool, and applies embedded SQL migrations at
// startup. Migrations are registered by the top-level migrations package via
// the MigrationsFS variable.
package database
