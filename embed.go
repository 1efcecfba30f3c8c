package blogbrain

import "embed"

// Migrations contains the embedded goose migration files applied by the
// migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
