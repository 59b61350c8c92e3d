// Package repository holds the raw-SQL persistence layer. Sentinel errors
// defined here let handlers distinguish failure classes without inspecting
// driver errors.
package repository

import "errors"

// ErrEmailExists is returned when a user insert collides on the unique
// email column.
var ErrEmailExists = errors.New("email already exists")

// ErrAliasExists is returned when a user insert or update collides on the
// unique alias column.
var ErrAliasExists = errors.New("alias already exists")

// ErrErased is returned by mutations that hit an erased user. Erasure is
// terminal; no update may touch such a row.
var ErrErased = errors.New("user is erased")
