// Package db carries the SQL migrations for the Kantoor schema.
//
// Development builds read them from db/migrations on disk; release builds
// compile them in via the embed_migrations build tag and this embed.
package db

import "embed"

// Migrations holds the migration files, rooted at "migrations".
//
//go:embed migrations
var Migrations embed.FS
