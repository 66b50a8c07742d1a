// Package store ties the per-entity catalog stores together: it owns the
// shared schema and the development seed.
package store

import _ "embed"

// Schema is the catalog DDL. Statements are idempotent so it can be applied
// on every startup.
//
//go:embed schema.sql
var Schema string
