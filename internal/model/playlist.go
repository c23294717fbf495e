package model

import "time"

// Playlist is a user-defined collection of songs, independent of category.
// ModeID is a free-form tag chosen by the client (e.g. "practice", "gig").
type Playlist struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	ModeID    string    `json:"modeId"    db:"mode_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
