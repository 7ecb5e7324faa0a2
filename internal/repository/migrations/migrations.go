// Package migrations embeds the versioned schema for each supported driver.
package migrations

import "embed"

//go:embed sqlite/*.sql mysql/*.sql
var FS embed.FS
