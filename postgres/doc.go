// Package postgres implements the uploads repository on PostgreSQL.
//
// Content-hash uniqueness is enforced by a unique index on the uploads
// table; a violation surfaces as uploadkit.ErrDuplicateHash so the
// pipeline can resolve concurrent duplicate uploads to a single winner.
// Migrations are embedded and applied with goose.
package postgres
