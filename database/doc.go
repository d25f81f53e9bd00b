// Package database connects bun to PostgreSQL, MySQL or SQLite, sizes the
// connection pool, creates the registered tables, reports health and
// classifies driver errors.
package database
