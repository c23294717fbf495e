// Package view holds the presentation-shaped projections returned to clients.
//
// Services never hand domain entities to the HTTP layer directly; they map
// them into these views. A view drops storage-only fields (password hash,
// owner IDs where the caller is the owner anyway) and flattens optionals.
package view

import (
	"time"

	"github.com/sakif/songbook/internal/model"
)

type CategoryView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

func CategoryFromModel(c *model.Category) CategoryView {
	return CategoryView{ID: c.ID, Title: c.Title, UserID: c.UserID}
}

func CategoriesFromModel(cs []model.Category) []CategoryView {
	out := make([]CategoryView, 0, len(cs))
	for i := range cs {
		out = append(out, CategoryFromModel(&cs[i]))
	}
	return out
}

// SongView is the full song projection. PlaylistID is empty when the song
// belongs to no playlist.
type SongView struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	IsDone     bool   `json:"isDone"`
	IsFavorite bool   `json:"isFavorite"`
	PlaylistID string `json:"playlistId,omitempty"`
}

func SongFromModel(s *model.Song) SongView {
	v := SongView{
		ID:         s.ID,
		CategoryID: s.CategoryID,
		Title:      s.Title,
		Artist:     s.Artist,
		IsDone:     s.IsDone,
		IsFavorite: s.IsFavorite,
	}
	if s.InPlaylist() {
		v.PlaylistID = *s.PlaylistID
	}
	return v
}

func SongsFromModel(ss []model.Song) []SongView {
	out := make([]SongView, 0, len(ss))
	for i := range ss {
		out = append(out, SongFromModel(&ss[i]))
	}
	return out
}

// SongWithoutPlaylistView is what the quick "add to category" flow returns.
type SongWithoutPlaylistView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	CategoryID string `json:"categoryId"`
}

func SongWithoutPlaylistFromModel(s *model.Song) SongWithoutPlaylistView {
	return SongWithoutPlaylistView{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		CategoryID: s.CategoryID,
	}
}

type PlaylistView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	ModeID string `json:"modeId,omitempty"`
}

func PlaylistFromModel(p *model.Playlist) PlaylistView {
	return PlaylistView{ID: p.ID, Title: p.Title, ModeID: p.ModeID}
}

func PlaylistsFromModel(ps []model.Playlist) []PlaylistView {
	out := make([]PlaylistView, 0, len(ps))
	for i := range ps {
		out = append(out, PlaylistFromModel(&ps[i]))
	}
	return out
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func UserFromModel(u *model.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}

type UserInfoView struct {
	UserID     string    `json:"userId"`
	Location   string    `json:"location"`
	Skills     string    `json:"skills"`
	Instrument string    `json:"instrument"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func UserInfoFromModel(i *model.UserInfo) UserInfoView {
	return UserInfoView{
		UserID:     i.UserID,
		Location:   i.Location,
		Skills:     i.Skills,
		Instrument: i.Instrument,
		UpdatedAt:  i.UpdatedAt,
	}
}

type SongDetailsView struct {
	SongID    string   `json:"songId"`
	Key       string   `json:"key"`
	ChordList []string `json:"chordList"`
	Notes     string   `json:"notes"`
	LyricLink string   `json:"lyricLink"`
	TabLink   string   `json:"tabLink"`
}

func SongDetailsFromModel(d *model.SongDetails) SongDetailsView {
	chords := d.ChordList
	if chords == nil {
		chords = []string{}
	}
	return SongDetailsView{
		SongID:    d.SongID,
		Key:       d.Key,
		ChordList: chords,
		Notes:     d.Notes,
		LyricLink: d.LyricLink,
		TabLink:   d.TabLink,
	}
}
