// Package migrations embeds the goose schema migrations for each supported
// database dialect.
package migrations

import "embed"

// Postgres holds the migrations under postgres/. They create the
// verify_password routine the credential store relies on.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations under sqlite/.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
