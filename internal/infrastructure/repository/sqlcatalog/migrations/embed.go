// Package migrations embeds the SQL catalog schema and its seed data.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
