package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/songbook/internal/music"
)

// MusicService exposes the public catalog reads. Nothing here is user
// scoped and nothing is cached.
type MusicService struct {
	catalog music.Catalog
	logger  *slog.Logger
}

func NewMusicService(catalog music.Catalog, logger *slog.Logger) *MusicService {
	return &MusicService{catalog: catalog, logger: logger}
}

func (s *MusicService) TopTracks(ctx context.Context) ([]music.Track, error) {
	tracks, err := s.catalog.TopTracks(ctx)
	if err != nil {
		s.logger.Error("failed to fetch top tracks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}
	return tracks, nil
}

func (s *MusicService) NewReleases(ctx context.Context) ([]music.Release, error) {
	releases, err := s.catalog.NewReleases(ctx)
	if err != nil {
		s.logger.Error("failed to fetch new releases", slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetching new releases: %w", err)
	}
	return releases, nil
}
