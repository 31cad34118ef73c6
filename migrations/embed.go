// Package migrations embeds SQL migration files into the binary.
//
// This allows Inkwell to run migrations without the SQL files being present
// on the filesystem - they're compiled into the executable.
package migrations

import (
	"embed"

	"github.com/inkwell-cms/inkwell/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // Files are at root of embedded FS
}
