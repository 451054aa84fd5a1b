// Package database provides connection management for MySQL, PostgreSQL and
// SQLite, versioned migrations over registered models, foreign key
// declarations, SQL error classification, query hooks and health checks,
// built on top of Bun.
package database
