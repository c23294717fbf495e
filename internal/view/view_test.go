package view

import (
	"testing"

	"github.com/sakif/songbook/internal/model"
)

func TestSongFromModel_PlaylistID(t *testing.T) {
	pl := "pl-1"
	empty := ""

	tests := []struct {
		name       string
		playlistID *string
		want       string
	}{
		{"nil playlist", nil, ""},
		{"empty playlist", &empty, ""},
		{"set playlist", &pl, "pl-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &model.Song{ID: "s1", CategoryID: "c1", Title: "Song", Artist: "Band", PlaylistID: tt.playlistID}
			if got := SongFromModel(s).PlaylistID; got != tt.want {
				t.Errorf("PlaylistID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoriesFromModel_EmptyIsNonNil(t *testing.T) {
	got := CategoriesFromModel(nil)
	if got == nil {
		t.Fatal("CategoriesFromModel(nil) returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSongDetailsFromModel_NilChords(t *testing.T) {
	v := SongDetailsFromModel(&model.SongDetails{SongID: "s1"})
	if v.ChordList == nil {
		t.Error("ChordList should be an empty slice, not nil")
	}
}

func TestUserFromModel_DropsPasswordHash(t *testing.T) {
	u := &model.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$secret"}
	v := UserFromModel(u)
	if v.ID != "u1" || v.Name != "Ana" || v.Email != "ana@example.com" {
		t.Errorf("UserFromModel() = %+v", v)
	}
}
