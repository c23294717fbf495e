// Package repository declares the storage contracts the services depend on.
//
// Each interface covers one collection. Every read and write is scoped by the
// owning user's ID: a record owned by someone else is indistinguishable from
// a missing one and surfaces as apperror.ErrNotFound.
package repository

import (
	"context"

	"github.com/sakif/songbook/internal/model"
)

// SongFilter narrows ListSongs. UserID is required; empty CategoryID or
// PlaylistID means "any".
type SongFilter struct {
	UserID     string
	CategoryID string
	PlaylistID string
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, userID, id string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	UpdateCategoryTitle(ctx context.Context, userID, id, title string) (*model.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}

type SongRepository interface {
	CreateSong(ctx context.Context, song *model.Song) error
	GetSongByID(ctx context.Context, userID, id string) (*model.Song, error)
	ListSongs(ctx context.Context, filter SongFilter) ([]model.Song, error)
	UpdateSongFlags(ctx context.Context, userID, id string, isDone, isFavorite bool) (*model.Song, error)
	DeleteSong(ctx context.Context, userID, id string) error
}

type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
	GetPlaylistByID(ctx context.Context, userID, id string) (*model.Playlist, error)
	ListPlaylists(ctx context.Context, userID string) ([]model.Playlist, error)
	UpdatePlaylistTitle(ctx context.Context, userID, id, title string) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, userID, id string) error
}

// UserRepository stores accounts. GetUserByEmail matches case-insensitively.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type UserInfoRepository interface {
	UpsertUserInfo(ctx context.Context, info *model.UserInfo) error
	GetUserInfo(ctx context.Context, userID string) (*model.UserInfo, error)
}

type SongDetailsRepository interface {
	UpsertSongDetails(ctx context.Context, details *model.SongDetails) error
	GetSongDetails(ctx context.Context, userID, songID string) (*model.SongDetails, error)
}
