package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/xid"

	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

var _ repository.SongRepository = (*DB)(nil)

var songColumns = []string{
	"id", "category_id", "title", "artist", "is_done", "is_favorite",
	"playlist_id", "user_id", "created_at", "updated_at",
}

// songRecord is the row shape of the songs table. playlist_id is nullable,
// which model.Song expresses as a nil pointer.
type songRecord struct {
	ID         string         `db:"id"`
	CategoryID string         `db:"category_id"`
	Title      string         `db:"title"`
	Artist     string         `db:"artist"`
	IsDone     bool           `db:"is_done"`
	IsFavorite bool           `db:"is_favorite"`
	PlaylistID sql.NullString `db:"playlist_id"`
	UserID     string         `db:"user_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func songRecordFrom(s *model.Song) songRecord {
	r := songRecord{
		ID:         s.ID,
		CategoryID: s.CategoryID,
		Title:      s.Title,
		Artist:     s.Artist,
		IsDone:     s.IsDone,
		IsFavorite: s.IsFavorite,
		UserID:     s.UserID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.InPlaylist() {
		r.PlaylistID = sql.NullString{String: *s.PlaylistID, Valid: true}
	}
	return r
}

func (r *songRecord) toModel() model.Song {
	s := model.Song{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Title:      r.Title,
		Artist:     r.Artist,
		IsDone:     r.IsDone,
		IsFavorite: r.IsFavorite,
		UserID:     r.UserID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.PlaylistID.Valid {
		id := r.PlaylistID.String
		s.PlaylistID = &id
	}
	return s
}

// CreateSong inserts a song. The category and playlist references are
// stored as given; nothing here checks they exist.
func (db *DB) CreateSong(ctx context.Context, s *model.Song) error {
	s.ID = xid.New().String()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query, args, err := sq.Insert("songs").
		Columns(songColumns...).
		Values(songValues(songRecordFrom(s))...).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: building song insert: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: inserting song %q: %w", s.Title, err)
	}
	return nil
}

func songValues(r songRecord) []interface{} {
	return []interface{}{
		r.ID, r.CategoryID, r.Title, r.Artist, r.IsDone, r.IsFavorite,
		r.PlaylistID, r.UserID, r.CreatedAt, r.UpdatedAt,
	}
}

func (db *DB) GetSongByID(ctx context.Context, userID, id string) (*model.Song, error) {
	query, args, err := sq.Select(songColumns...).
		From("songs").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building song query: %w", err)
	}

	var r songRecord
	if err := db.conn.GetContext(ctx, &r, query, args...); err != nil {
		return nil, notFoundIfNoRows(err, "song", id, "getting song "+id)
	}
	s := r.toModel()
	return &s, nil
}

// ListSongs returns the songs matching filter, oldest first. Empty
// CategoryID or PlaylistID fields do not constrain the result.
func (db *DB) ListSongs(ctx context.Context, f repository.SongFilter) ([]model.Song, error) {
	b := sq.Select(songColumns...).
		From("songs").
		Where(sq.Eq{"user_id": f.UserID}).
		OrderBy("created_at ASC", "id ASC")
	if f.CategoryID != "" {
		b = b.Where(sq.Eq{"category_id": f.CategoryID})
	}
	if f.PlaylistID != "" {
		b = b.Where(sq.Eq{"playlist_id": f.PlaylistID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building song list query: %w", err)
	}

	var records []songRecord
	if err := db.conn.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: listing songs for user %s: %w", f.UserID, err)
	}

	songs := make([]model.Song, 0, len(records))
	for i := range records {
		songs = append(songs, records[i].toModel())
	}
	return songs, nil
}

func (db *DB) UpdateSongFlags(ctx context.Context, userID, id string, isDone, isFavorite bool) (*model.Song, error) {
	query, args, err := sq.Update("songs").
		Set("is_done", isDone).
		Set("is_favorite", isFavorite).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building song update: %w", err)
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating song %s: %w", id, err)
	}
	if err := requireAffected(res, "song", id, "updating song "+id); err != nil {
		return nil, err
	}
	return db.GetSongByID(ctx, userID, id)
}

// DeleteSong removes the song and any details kept for it.
func (db *DB) DeleteSong(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM songs WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting song %s: %w", id, err)
	}
	if err := requireAffected(res, "song", id, "deleting song "+id); err != nil {
		return err
	}

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM song_details WHERE song_id = ? AND user_id = ?`, id, userID,
	); err != nil {
		return fmt.Errorf("sqlite: deleting details of song %s: %w", id, err)
	}
	return nil
}
