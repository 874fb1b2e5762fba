// Package migrations embeds the archive schema for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
