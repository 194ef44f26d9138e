// Package migrations embeds the versioned SQL schema so services can apply it at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
