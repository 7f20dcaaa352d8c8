// Package migrations holds the versioned SQL schema. The files are embedded so
// the migrate command and the integration tests run the same schema.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
