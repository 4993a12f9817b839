// Package migrations embeds the store schema. Files are applied in name
// order; the NNN_ prefix is the version.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
