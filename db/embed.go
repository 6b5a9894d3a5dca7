// Package db holds the SQL migrations applied by internal/database.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
