package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

// fakeStore is an in-memory stand-in for the sqlite DB. It implements every
// repository interface, counts calls, and can be told to fail.
type fakeStore struct {
	categories map[string]*model.Category
	songs      map[string]*model.Song
	playlists  map[string]*model.Playlist
	users      map[string]*model.User
	infos      map[string]*model.UserInfo
	details    map[string]*model.SongDetails

	order  []string // creation order of song IDs
	nextID int
	calls  int
	err    error // returned by every method when set
}

var (
	_ repository.CategoryRepository    = (*fakeStore)(nil)
	_ repository.SongRepository        = (*fakeStore)(nil)
	_ repository.PlaylistRepository    = (*fakeStore)(nil)
	_ repository.UserRepository        = (*fakeStore)(nil)
	_ repository.UserInfoRepository    = (*fakeStore)(nil)
	_ repository.SongDetailsRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: make(map[string]*model.Category),
		songs:      make(map[string]*model.Song),
		playlists:  make(map[string]*model.Playlist),
		users:      make(map[string]*model.User),
		infos:      make(map[string]*model.UserInfo),
		details:    make(map[string]*model.SongDetails),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) enter() error {
	f.calls++
	return f.err
}

// --- categories ---

func (f *fakeStore) CreateCategory(_ context.Context, c *model.Category) error {
	if err := f.enter(); err != nil {
		return err
	}
	c.ID = f.id("cat")
	stored := *c
	f.categories[c.ID] = &stored
	return nil
}

func (f *fakeStore) GetCategoryByID(_ context.Context, userID, id string) (*model.Category, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return nil, apperror.NotFound("category", id)
	}
	out := *c
	return &out, nil
}

func (f *fakeStore) ListCategories(_ context.Context, userID string) ([]model.Category, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	out := []model.Category{}
	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateCategoryTitle(_ context.Context, userID, id, title string) (*model.Category, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return nil, apperror.NotFound("category", id)
	}
	c.Title = title
	out := *c
	return &out, nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, userID, id string) error {
	if err := f.enter(); err != nil {
		return err
	}
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return apperror.NotFound("category", id)
	}
	delete(f.categories, id)
	return nil
}

// --- songs ---

func (f *fakeStore) CreateSong(_ context.Context, s *model.Song) error {
	if err := f.enter(); err != nil {
		return err
	}
	s.ID = f.id("song")
	stored := *s
	f.songs[s.ID] = &stored
	f.order = append(f.order, s.ID)
	return nil
}

func (f *fakeStore) GetSongByID(_ context.Context, userID, id string) (*model.Song, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	s, ok := f.songs[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("song", id)
	}
	out := *s
	return &out, nil
}

func (f *fakeStore) ListSongs(_ context.Context, filter repository.SongFilter) ([]model.Song, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	out := []model.Song{}
	for _, id := range f.order {
		s, ok := f.songs[id]
		if !ok || s.UserID != filter.UserID {
			continue
		}
		if filter.CategoryID != "" && s.CategoryID != filter.CategoryID {
			continue
		}
		if filter.PlaylistID != "" && (s.PlaylistID == nil || *s.PlaylistID != filter.PlaylistID) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) UpdateSongFlags(_ context.Context, userID, id string, isDone, isFavorite bool) (*model.Song, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	s, ok := f.songs[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("song", id)
	}
	s.IsDone = isDone
	s.IsFavorite = isFavorite
	out := *s
	return &out, nil
}

func (f *fakeStore) DeleteSong(_ context.Context, userID, id string) error {
	if err := f.enter(); err != nil {
		return err
	}
	s, ok := f.songs[id]
	if !ok || s.UserID != userID {
		return apperror.NotFound("song", id)
	}
	delete(f.songs, id)
	return nil
}

// --- playlists ---

func (f *fakeStore) CreatePlaylist(_ context.Context, p *model.Playlist) error {
	if err := f.enter(); err != nil {
		return err
	}
	p.ID = f.id("pl")
	stored := *p
	f.playlists[p.ID] = &stored
	return nil
}

func (f *fakeStore) GetPlaylistByID(_ context.Context, userID, id string) (*model.Playlist, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	p, ok := f.playlists[id]
	if !ok || p.UserID != userID {
		return nil, apperror.NotFound("playlist", id)
	}
	out := *p
	return &out, nil
}

func (f *fakeStore) ListPlaylists(_ context.Context, userID string) ([]model.Playlist, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	out := []model.Playlist{}
	for _, p := range f.playlists {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdatePlaylistTitle(_ context.Context, userID, id, title string) (*model.Playlist, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	p, ok := f.playlists[id]
	if !ok || p.UserID != userID {
		return nil, apperror.NotFound("playlist", id)
	}
	p.Title = title
	out := *p
	return &out, nil
}

func (f *fakeStore) DeletePlaylist(_ context.Context, userID, id string) error {
	if err := f.enter(); err != nil {
		return err
	}
	p, ok := f.playlists[id]
	if !ok || p.UserID != userID {
		return apperror.NotFound("playlist", id)
	}
	delete(f.playlists, id)
	return nil
}

// --- users ---

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	if err := f.enter(); err != nil {
		return err
	}
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperror.Conflict("user with email", u.Email)
		}
	}
	u.ID = f.id("user")
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// --- user info ---

func (f *fakeStore) UpsertUserInfo(_ context.Context, info *model.UserInfo) error {
	if err := f.enter(); err != nil {
		return err
	}
	stored := *info
	f.infos[info.UserID] = &stored
	return nil
}

func (f *fakeStore) GetUserInfo(_ context.Context, userID string) (*model.UserInfo, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	info, ok := f.infos[userID]
	if !ok {
		return nil, apperror.NotFound("user info", userID)
	}
	out := *info
	return &out, nil
}

// --- song details ---

func (f *fakeStore) UpsertSongDetails(_ context.Context, d *model.SongDetails) error {
	if err := f.enter(); err != nil {
		return err
	}
	stored := *d
	f.details[d.SongID] = &stored
	return nil
}

func (f *fakeStore) GetSongDetails(_ context.Context, userID, songID string) (*model.SongDetails, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	d, ok := f.details[songID]
	if !ok || d.UserID != userID {
		return nil, apperror.NotFound("song details", songID)
	}
	out := *d
	return &out, nil
}

// discardLogger keeps test output quiet.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(t *testing.T) (*CategoryService, *SongService, *PlaylistService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	logger := discardLogger()
	return NewCategoryService(store, store, logger),
		NewSongService(store, store, store, store, logger),
		NewPlaylistService(store, logger),
		store
}
