// Package store keeps a SQLite history of build runs.
//
// Every non-dry build saves one snapshot: the run metadata, each published
// row (as JSON plus a few indexed schema columns) and the list of KSF rows
// reclassified as Pseudo QD. The summary and history commands read from
// here so they never need to rebuild.
//
// Migrations live in migrations/*.sql, are embedded at build time and are
// applied in file name order inside a single transaction.
package store
