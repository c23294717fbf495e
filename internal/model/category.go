package model

import "time"

// Category is a user-defined grouping label for songs.
//
// Titles are unique per user, compared case-insensitively. The check lives
// in the service layer, not in the store.
type Category struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultCategory is one entry of the built-in genre list offered to new users.
type DefaultCategory struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DefaultCategories is the genre list a user can seed their categories from.
var DefaultCategories = []DefaultCategory{
	{Label: "Rock", Value: "rock"},
	{Label: "Pop", Value: "pop"},
	{Label: "Jazz", Value: "jazz"},
	{Label: "Classical", Value: "classical"},
	{Label: "Electronic", Value: "electronic"},
	{Label: "Hip Hop", Value: "hiphop"},
	{Label: "R&B", Value: "rnb"},
}
