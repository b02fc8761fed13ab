// Package postgres contains the PostgreSQL implementations of the store
// interfaces. The SQL is explicit: each read issues exactly the joins it
// needs, and uniqueness (asset external IDs, tag names) is enforced by
// database constraints, with unique-violation errors translated into the
// store package's sentinel errors.
package postgres
