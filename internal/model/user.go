// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents an account in the local users table.
//
// The primary key is a UUID string. For users who sign in through the
// hosted identity provider, the ID is the provider's stable subject ID and
// we simply mirror it — the same user has the same ID on both sides.
// For users created through the legacy register endpoint, we generate the
// UUID ourselves, so both kinds of account live in one keyspace.
//
// PasswordHash is only populated for locally registered users. Mirrored
// users authenticate at the provider, so their hash stays empty.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Email        string    `json:"email"      db:"email"`
	PasswordHash string    `json:"-"          db:"password_hash"` // never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
