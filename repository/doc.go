// Package repository provides a generic, transaction-per-call CRUD repository
// built on bun, with optional pre-write hooks, read-through caching and
// change events.
package repository
