// Package repository provides a generic Bun repository with CRUD, upsert,
// relation loading and transactional helpers.
package repository
