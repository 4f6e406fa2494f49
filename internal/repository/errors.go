// Package repository defines error values shared across the Mongo-backed
// stores. Sentinels let handlers distinguish failure scenarios without
// inspecting driver errors: ErrNotFound covers absent documents and
// updates that matched zero documents, ErrConflict covers writes that
// clash with already-applied state (e.g. re-settling an order under a
// different transaction reference).
package repository

import "errors"

// ErrNotFound is returned when the target document does not exist or an
// update/delete matched zero documents. Handlers translate it to 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot proceed because the
// document is already in a conflicting state. Handlers translate it
// to 409.
var ErrConflict = errors.New("conflict")
