package postgres

import "embed"

// MigrationsFS embeds the goose SQL migrations so the binary can bring
// the schema up to date without a migrations directory on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migrations inside MigrationsFS.
const MigrationsDir = "migrations"
