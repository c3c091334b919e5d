package migration

import "embed"

// Scripts holds the versioned SQL migrations compiled into the binary.
// scripts/mysql and scripts/sqlite are goose files; scripts/golang-migrate
// holds the same MySQL schema as up/down pairs.
//
//go:embed scripts
var Scripts embed.FS

const golangMigrateDir = "scripts/golang-migrate"

func gooseDir(dialect string) string {
	if dialect == dialectSQLite {
		return "scripts/sqlite"
	}
	return "scripts/mysql"
}
