// Package model defines the domain entities used throughout the application.
//
// Entities are plain records: identity plus a handful of fields. They carry
// `db` tags so the sqlite repository can scan rows straight into them, and
// `json` tags for the few places they are serialised directly.
package model

import "time"

// User represents a registered account.
//
// Users register with an e-mail address and a password. PasswordHash holds
// the bcrypt output and is never serialised.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserInfo is the optional musician profile attached to a user.
// It is keyed by the user's ID; there is at most one per user.
type UserInfo struct {
	UserID     string    `json:"userId"     db:"user_id"`
	Location   string    `json:"location"   db:"location"`
	Skills     string    `json:"skills"     db:"skills"`
	Instrument string    `json:"instrument" db:"instrument"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}
