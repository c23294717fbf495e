package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
	"github.com/sakif/songbook/internal/view"
)

const MaxModeIDLength = 32

// PlaylistService manages a user's playlists. Playlist titles are not
// required to be unique.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	logger    *slog.Logger
}

func NewPlaylistService(playlists repository.PlaylistRepository, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{playlists: playlists, logger: logger}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, userID, title, modeID string) (*view.PlaylistView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := cleanText("title", title, MaxTitleLength, true)
	if err != nil {
		return nil, err
	}
	modeID, err = cleanText("modeId", modeID, MaxModeIDLength, false)
	if err != nil {
		return nil, err
	}

	playlist := &model.Playlist{Title: title, ModeID: modeID, UserID: userID}
	if err := s.playlists.CreatePlaylist(ctx, playlist); err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}

	s.logger.Info("playlist created",
		slog.String("id", playlist.ID),
		slog.String("userID", userID),
	)

	v := view.PlaylistFromModel(playlist)
	return &v, nil
}

func (s *PlaylistService) GetPlaylists(ctx context.Context, userID string) ([]view.PlaylistView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	playlists, err := s.playlists.ListPlaylists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}
	return view.PlaylistsFromModel(playlists), nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, userID, playlistID, title string) (*view.PlaylistView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("playlistId", playlistID); err != nil {
		return nil, err
	}
	title, err := cleanText("title", title, MaxTitleLength, true)
	if err != nil {
		return nil, err
	}

	playlist, err := s.playlists.UpdatePlaylistTitle(ctx, userID, playlistID, title)
	if err != nil {
		return nil, fmt.Errorf("updating playlist: %w", err)
	}

	v := view.PlaylistFromModel(playlist)
	return &v, nil
}

// DeletePlaylist removes the playlist. Its songs stay in their categories.
func (s *PlaylistService) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID("playlistId", playlistID); err != nil {
		return err
	}

	if err := s.playlists.DeletePlaylist(ctx, userID, playlistID); err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}

	s.logger.Info("playlist deleted",
		slog.String("id", playlistID),
		slog.String("userID", userID),
	)
	return nil
}
