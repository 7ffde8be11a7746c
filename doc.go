// Package gearbox forwards database migration commands to a migration engine.
//
// Commands
//
// • create NAME: create a new, empty migration
//
// • db_version: report the revision the database is at
//
// • upgrade [VERSION]: apply migrations (default head)
//
// • downgrade [VERSION]: revert migrations (default -1, one step back)
//
// • test: upgrade by one revision and downgrade it again
//
// Run takes an Invocation and calls exactly one Engine operation for it.
// Engine errors are returned untouched.
//
// The bundled Engine, Migrator, runs SQL migrations with goose. It reads the
// database URL from the sqlalchemy.url key in the [app:main] section of an
// INI config file and keeps migration files in migration/versions.
// PostgreSQL (lib/pq or pgx), MySQL and SQLite URLs are understood.
package gearbox
