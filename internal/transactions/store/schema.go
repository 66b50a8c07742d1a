// Package store ties the transactions-service stores together: it owns the
// shared schema covering transactions, transfers and the catalog replicas.
package store

import _ "embed"

// Schema is the transactions-service DDL. Statements are idempotent so it can
// be applied on every startup.
//
//go:embed schema.sql
var Schema string
