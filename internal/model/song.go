package model

import "time"

// Song belongs to exactly one category and optionally to one playlist.
//
// CategoryID is not enforced by the store: deleting a category leaves its
// songs in place with a dangling CategoryID.
type Song struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	IsDone     bool      `json:"isDone"`
	IsFavorite bool      `json:"isFavorite"`
	PlaylistID *string   `json:"playlistId,omitempty"` // nil when the song is in no playlist
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// InPlaylist reports whether the song is attached to a playlist.
func (s *Song) InPlaylist() bool {
	return s.PlaylistID != nil && *s.PlaylistID != ""
}

// SongDetails holds the practice notes a user keeps for one of their songs.
type SongDetails struct {
	SongID    string    `json:"songId"`
	UserID    string    `json:"userId"`
	Key       string    `json:"key"`
	ChordList []string  `json:"chordList"`
	Notes     string    `json:"notes"`
	LyricLink string    `json:"lyricLink"`
	TabLink   string    `json:"tabLink"`
	UpdatedAt time.Time `json:"updatedAt"`
}
