package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
	"github.com/sakif/songbook/internal/view"
)

// CategoryService manages a user's categories and the song lists grouped
// under them.
type CategoryService struct {
	categories repository.CategoryRepository
	songs      repository.SongRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, songs repository.SongRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		songs:      songs,
		logger:     logger,
	}
}

// CreateCategory adds a category for userID. A title that already exists
// for the user, compared case-insensitively, is rejected with
// apperror.ErrConflict and nothing is written.
//
// The check reads then writes without a transaction; two concurrent creates
// with the same title can both succeed.
func (s *CategoryService) CreateCategory(ctx context.Context, userID, title string) (*view.CategoryView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	title, err := cleanText("title", title, MaxTitleLength, true)
	if err != nil {
		return nil, err
	}

	existing, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking existing categories: %w", err)
	}
	for _, c := range existing {
		if strings.EqualFold(c.Title, title) {
			return nil, apperror.Conflict("category", title)
		}
	}

	category := &model.Category{Title: title, UserID: userID}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		s.logger.Error("failed to create category",
			slog.String("userID", userID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("userID", userID),
	)

	v := view.CategoryFromModel(category)
	return &v, nil
}

// GetCategories returns only the categories owned by userID.
func (s *CategoryService) GetCategories(ctx context.Context, userID string) ([]view.CategoryView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return view.CategoriesFromModel(categories), nil
}

// GetSongListByCategory returns the user's songs filed under categoryID.
// The category itself is not looked up, so songs left behind by a deleted
// category are still listed.
func (s *CategoryService) GetSongListByCategory(ctx context.Context, categoryID, userID string) ([]view.SongView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("categoryId", categoryID); err != nil {
		return nil, err
	}

	songs, err := s.songs.ListSongs(ctx, repository.SongFilter{UserID: userID, CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("listing songs of category %s: %w", categoryID, err)
	}
	return view.SongsFromModel(songs), nil
}

// GetAllSongsByUserID returns every song the user owns across categories.
func (s *CategoryService) GetAllSongsByUserID(ctx context.Context, userID string) ([]view.SongView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	songs, err := s.songs.ListSongs(ctx, repository.SongFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("listing songs: %w", err)
	}
	return view.SongsFromModel(songs), nil
}

// UpdateCategory renames a category in place. Unlike CreateCategory it does
// not look for a title collision.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID, title string) (*view.CategoryView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID("categoryId", categoryID); err != nil {
		return nil, err
	}
	title, err := cleanText("title", title, MaxTitleLength, true)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.UpdateCategoryTitle(ctx, userID, categoryID, title)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}

	s.logger.Info("category renamed",
		slog.String("id", categoryID),
		slog.String("userID", userID),
	)

	v := view.CategoryFromModel(category)
	return &v, nil
}

// DeleteCategory removes the category record only; its songs stay.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID("categoryId", categoryID); err != nil {
		return err
	}

	if err := s.categories.DeleteCategory(ctx, userID, categoryID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	s.logger.Info("category deleted",
		slog.String("id", categoryID),
		slog.String("userID", userID),
	)
	return nil
}

// DefaultCategories is the built-in genre list new users pick from.
func (s *CategoryService) DefaultCategories() []model.DefaultCategory {
	out := make([]model.DefaultCategory, len(model.DefaultCategories))
	copy(out, model.DefaultCategories)
	return out
}

// SeedDefaultCategories creates every default genre the user does not
// already have and returns the ones it created.
func (s *CategoryService) SeedDefaultCategories(ctx context.Context, userID string) ([]view.CategoryView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	existing, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking existing categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[strings.ToLower(c.Title)] = true
	}

	created := []view.CategoryView{}
	for _, d := range model.DefaultCategories {
		if have[strings.ToLower(d.Label)] {
			continue
		}
		category := &model.Category{Title: d.Label, UserID: userID}
		if err := s.categories.CreateCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("creating default category %q: %w", d.Label, err)
		}
		created = append(created, view.CategoryFromModel(category))
	}

	s.logger.Info("default categories seeded",
		slog.String("userID", userID),
		slog.Int("created", len(created)),
	)
	return created, nil
}
