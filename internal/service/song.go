package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
	"github.com/sakif/songbook/internal/view"
)

const (
	MaxSongKeyLength = 12
	MaxChords        = 64
	MaxChordLength   = 16
	MaxNotesLength   = 5000
)

// SongService manages songs, their done/favorite flags and practice details.
//
// There are no retries or idempotency keys: calling CreateSong twice
// creates two songs.
type SongService struct {
	songs      repository.SongRepository
	categories repository.CategoryRepository
	playlists  repository.PlaylistRepository
	details    repository.SongDetailsRepository
	logger     *slog.Logger
}

func NewSongService(
	songs repository.SongRepository,
	categories repository.CategoryRepository,
	playlists repository.PlaylistRepository,
	details repository.SongDetailsRepository,
	logger *slog.Logger,
) *SongService {
	return &SongService{
		songs:      songs,
		categories: categories,
		playlists:  playlists,
		details:    details,
		logger:     logger,
	}
}

// CreateSong files a new song under categoryID and, when playlistID is
// non-empty, adds it to that playlist. Both must belong to userID. The song
// starts with IsDone false.
func (s *SongService) CreateSong(ctx context.Context, userID, title, artist, categoryID, playlistID string) (*view.SongView, error) {
	song, err := s.createSong(ctx, userID, title, artist, categoryID, playlistID)
	if err != nil {
		return nil, err
	}
	v := view.SongFromModel(song)
	return &v, nil
}

// CreateSongWithoutPlaylist is the quick-add flow from a category screen.
func (s *SongService) CreateSongWithoutPlaylist(ctx context.Context, userID, title, artist, categoryID string) (*view.SongWithoutPlaylistView, error) {
	song, err := s.createSong(ctx, userID, title, artist, categoryID, "")
	if err != nil {
		return nil, err
	}
	v := view.SongWithoutPlaylistFromModel(song)
	return &v, nil
}

func (s *SongService) createSong(ctx context.Context, userID, title, artist, categoryID, playlistID string) (*model.Song, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := cleanText("title", title, MaxTitleLength, true)
	if err != nil {
		return nil, err
	}
	artist, err = cleanText("artist", artist, MaxArtistLength, true)
	if err != nil {
		return nil, err
	}
	categoryID = strings.TrimSpace(categoryID)
	if err := requireID("categoryId", categoryID); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetCategoryByID(ctx, userID, categoryID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("categoryId", "category does not exist")
		}
		return nil, fmt.Errorf("checking category %s: %w", categoryID, err)
	}

	song := &model.Song{
		CategoryID: categoryID,
		Title:      title,
		Artist:     artist,
		UserID:     userID,
	}

	if playlistID = strings.TrimSpace(playlistID); playlistID != "" {
		if _, err := s.playlists.GetPlaylistByID(ctx, userID, playlistID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.ValidationFailed("playlistId", "playlist does not exist")
			}
			return nil, fmt.Errorf("checking playlist %s: %w", playlistID, err)
		}
		song.PlaylistID = &playlistID
	}

	if err := s.songs.CreateSong(ctx, song); err != nil {
		s.logger.Error("failed to create song",
			slog.String("userID", userID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating song: %w", err)
	}

	s.logger.Info("song created",
		slog.String("id", song.ID),
		slog.String("categoryID", categoryID),
		slog.String("userID", userID),
	)
	return song, nil
}

// GetSongs returns the songs of one of the user's playlists.
func (s *SongService) GetSongs(ctx context.Context, userID, playlistID string) ([]view.SongView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("playlistId", playlistID); err != nil {
		return nil, err
	}

	if _, err := s.playlists.GetPlaylistByID(ctx, userID, playlistID); err != nil {
		return nil, fmt.Errorf("getting playlist: %w", err)
	}

	songs, err := s.songs.ListSongs(ctx, repository.SongFilter{UserID: userID, PlaylistID: playlistID})
	if err != nil {
		return nil, fmt.Errorf("listing songs of playlist %s: %w", playlistID, err)
	}
	return view.SongsFromModel(songs), nil
}

func (s *SongService) DeleteSong(ctx context.Context, userID, songID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID("songId", songID); err != nil {
		return err
	}

	if err := s.songs.DeleteSong(ctx, userID, songID); err != nil {
		return fmt.Errorf("deleting song: %w", err)
	}

	s.logger.Info("song deleted",
		slog.String("id", songID),
		slog.String("userID", userID),
	)
	return nil
}

// SetSongDone sets the done flag, keeping the favorite flag as stored.
func (s *SongService) SetSongDone(ctx context.Context, userID, songID string, done bool) (*view.SongView, error) {
	return s.updateFlags(ctx, userID, songID, func(song *model.Song) { song.IsDone = done })
}

// SetSongFavorite sets the favorite flag, keeping the done flag as stored.
func (s *SongService) SetSongFavorite(ctx context.Context, userID, songID string, favorite bool) (*view.SongView, error) {
	return s.updateFlags(ctx, userID, songID, func(song *model.Song) { song.IsFavorite = favorite })
}

func (s *SongService) updateFlags(ctx context.Context, userID, songID string, apply func(*model.Song)) (*view.SongView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("songId", songID); err != nil {
		return nil, err
	}

	song, err := s.songs.GetSongByID(ctx, userID, songID)
	if err != nil {
		return nil, fmt.Errorf("getting song: %w", err)
	}
	apply(song)

	updated, err := s.songs.UpdateSongFlags(ctx, userID, songID, song.IsDone, song.IsFavorite)
	if err != nil {
		return nil, fmt.Errorf("updating song flags: %w", err)
	}

	v := view.SongFromModel(updated)
	return &v, nil
}

// SongDetailsInput is the editable part of a song's practice sheet.
type SongDetailsInput struct {
	Key       string
	ChordList []string
	Notes     string
	LyricLink string
	TabLink   string
}

// SaveSongDetails replaces the practice details of one of the user's songs.
func (s *SongService) SaveSongDetails(ctx context.Context, userID, songID string, in SongDetailsInput) (*view.SongDetailsView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("songId", songID); err != nil {
		return nil, err
	}

	details, err := normalizeDetails(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.songs.GetSongByID(ctx, userID, songID); err != nil {
		return nil, fmt.Errorf("getting song: %w", err)
	}

	details.SongID = songID
	details.UserID = userID
	if err := s.details.UpsertSongDetails(ctx, details); err != nil {
		return nil, fmt.Errorf("saving song details: %w", err)
	}

	v := view.SongDetailsFromModel(details)
	return &v, nil
}

// GetSongDetails returns the song's practice details. A song that never had
// details saved gets an empty sheet rather than an error.
func (s *SongService) GetSongDetails(ctx context.Context, userID, songID string) (*view.SongDetailsView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("songId", songID); err != nil {
		return nil, err
	}

	if _, err := s.songs.GetSongByID(ctx, userID, songID); err != nil {
		return nil, fmt.Errorf("getting song: %w", err)
	}

	details, err := s.details.GetSongDetails(ctx, userID, songID)
	if errors.Is(err, apperror.ErrNotFound) {
		details = &model.SongDetails{SongID: songID, UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("getting song details: %w", err)
	}

	v := view.SongDetailsFromModel(details)
	return &v, nil
}

func normalizeDetails(in SongDetailsInput) (*model.SongDetails, error) {
	key, err := cleanText("key", in.Key, MaxSongKeyLength, false)
	if err != nil {
		return nil, err
	}
	notes, err := cleanText("notes", in.Notes, MaxNotesLength, false)
	if err != nil {
		return nil, err
	}

	if len(in.ChordList) > MaxChords {
		return nil, apperror.ValidationFailed("chordList",
			fmt.Sprintf("at most %d chords are allowed", MaxChords))
	}
	chords := make([]string, 0, len(in.ChordList))
	for _, c := range in.ChordList {
		c, err := cleanText("chordList", c, MaxChordLength, false)
		if err != nil {
			return nil, err
		}
		if c != "" {
			chords = append(chords, c)
		}
	}

	links := map[string]string{"lyricLink": in.LyricLink, "tabLink": in.TabLink}
	for field, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		if err := validate.Var(link, "url,startswith=http"); err != nil {
			return nil, apperror.ValidationFailed(field, field+" must be an http(s) URL")
		}
	}

	return &model.SongDetails{
		Key:       key,
		ChordList: chords,
		Notes:     notes,
		LyricLink: strings.TrimSpace(in.LyricLink),
		TabLink:   strings.TrimSpace(in.TabLink),
	}, nil
}
