package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

func TestCreateSong_Defaults(t *testing.T) {
	db := newTestDB(t)
	c := createTestCategory(t, db, "u1", "Rock")

	s := createTestSong(t, db, "u1", c.ID, "Paranoid", nil)

	found, err := db.GetSongByID(context.Background(), "u1", s.ID)
	if err != nil {
		t.Fatalf("GetSongByID() error = %v", err)
	}
	if found.IsDone {
		t.Error("IsDone = true, want false for a new song")
	}
	if found.IsFavorite {
		t.Error("IsFavorite = true, want false for a new song")
	}
	if found.PlaylistID != nil {
		t.Errorf("PlaylistID = %q, want nil", *found.PlaylistID)
	}
	if found.CategoryID != c.ID {
		t.Errorf("CategoryID = %q, want %q", found.CategoryID, c.ID)
	}
}

func TestCreateSong_WithPlaylist(t *testing.T) {
	db := newTestDB(t)
	c := createTestCategory(t, db, "u1", "Rock")
	p := createTestPlaylist(t, db, "u1", "Gig")

	s := createTestSong(t, db, "u1", c.ID, "War Pigs", &p.ID)

	found, err := db.GetSongByID(context.Background(), "u1", s.ID)
	if err != nil {
		t.Fatalf("GetSongByID() error = %v", err)
	}
	if found.PlaylistID == nil || *found.PlaylistID != p.ID {
		t.Errorf("PlaylistID = %v, want %q", found.PlaylistID, p.ID)
	}
}

func TestListSongs_Filters(t *testing.T) {
	db := newTestDB(t)
	rock := createTestCategory(t, db, "u1", "Rock")
	jazz := createTestCategory(t, db, "u1", "Jazz")
	gig := createTestPlaylist(t, db, "u1", "Gig")

	createTestSong(t, db, "u1", rock.ID, "Paranoid", &gig.ID)
	createTestSong(t, db, "u1", rock.ID, "Iron Man", nil)
	createTestSong(t, db, "u1", jazz.ID, "So What", &gig.ID)
	createTestSong(t, db, "u2", rock.ID, "Someone Else's", nil)

	tests := []struct {
		name   string
		filter repository.SongFilter
		want   int
	}{
		{"all songs of user", repository.SongFilter{UserID: "u1"}, 3},
		{"by category", repository.SongFilter{UserID: "u1", CategoryID: rock.ID}, 2},
		{"by playlist", repository.SongFilter{UserID: "u1", PlaylistID: gig.ID}, 2},
		{"by category and playlist", repository.SongFilter{UserID: "u1", CategoryID: jazz.ID, PlaylistID: gig.ID}, 1},
		{"other user", repository.SongFilter{UserID: "u2"}, 1},
		{"unknown user", repository.SongFilter{UserID: "u3"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListSongs(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListSongs() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListSongs() returned %d songs, want %d", len(got), tt.want)
			}
		})
	}
}

func TestUpdateSongFlags(t *testing.T) {
	db := newTestDB(t)
	c := createTestCategory(t, db, "u1", "Rock")
	s := createTestSong(t, db, "u1", c.ID, "Paranoid", nil)

	updated, err := db.UpdateSongFlags(context.Background(), "u1", s.ID, true, true)
	if err != nil {
		t.Fatalf("UpdateSongFlags() error = %v", err)
	}
	if !updated.IsDone || !updated.IsFavorite {
		t.Errorf("flags = (%v, %v), want (true, true)", updated.IsDone, updated.IsFavorite)
	}

	if _, err := db.UpdateSongFlags(context.Background(), "u2", s.ID, false, false); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateSongFlags() by other user error = %v, want ErrNotFound", err)
	}
}

func TestDeleteSong_RemovesDetails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createTestCategory(t, db, "u1", "Rock")
	s := createTestSong(t, db, "u1", c.ID, "Paranoid", nil)

	if err := db.UpsertSongDetails(ctx, &model.SongDetails{SongID: s.ID, UserID: "u1", Key: "Em"}); err != nil {
		t.Fatalf("UpsertSongDetails() error = %v", err)
	}

	if err := db.DeleteSong(ctx, "u1", s.ID); err != nil {
		t.Fatalf("DeleteSong() error = %v", err)
	}

	if _, err := db.GetSongByID(ctx, "u1", s.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSongByID() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetSongDetails(ctx, "u1", s.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSongDetails() after delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteSong_OtherUser(t *testing.T) {
	db := newTestDB(t)
	c := createTestCategory(t, db, "u1", "Rock")
	s := createTestSong(t, db, "u1", c.ID, "Paranoid", nil)

	err := db.DeleteSong(context.Background(), "u2", s.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteSong() error = %v, want ErrNotFound", err)
	}
}
