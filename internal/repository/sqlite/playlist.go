package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

var _ repository.PlaylistRepository = (*DB)(nil)

const playlistColumns = `id, title, mode_id, user_id, created_at, updated_at`

func (db *DB) CreatePlaylist(ctx context.Context, p *model.Playlist) error {
	p.ID = xid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO playlists (`+playlistColumns+`)
		 VALUES (:id, :title, :mode_id, :user_id, :created_at, :updated_at)`,
		p,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting playlist %q: %w", p.Title, err)
	}
	return nil
}

func (db *DB) GetPlaylistByID(ctx context.Context, userID, id string) (*model.Playlist, error) {
	var p model.Playlist
	err := db.conn.GetContext(ctx, &p,
		`SELECT `+playlistColumns+` FROM playlists WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err, "playlist", id, "getting playlist "+id)
	}
	return &p, nil
}

func (db *DB) ListPlaylists(ctx context.Context, userID string) ([]model.Playlist, error) {
	playlists := []model.Playlist{}
	err := db.conn.SelectContext(ctx, &playlists,
		`SELECT `+playlistColumns+` FROM playlists
		 WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing playlists for user %s: %w", userID, err)
	}
	return playlists, nil
}

func (db *DB) UpdatePlaylistTitle(ctx context.Context, userID, id, title string) (*model.Playlist, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE playlists SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating playlist %s: %w", id, err)
	}
	if err := requireAffected(res, "playlist", id, "updating playlist "+id); err != nil {
		return nil, err
	}
	return db.GetPlaylistByID(ctx, userID, id)
}

// DeletePlaylist removes the playlist and detaches its songs; the songs
// themselves stay in their categories.
func (db *DB) DeletePlaylist(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM playlists WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting playlist %s: %w", id, err)
	}
	if err := requireAffected(res, "playlist", id, "deleting playlist "+id); err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE songs SET playlist_id = NULL, updated_at = ? WHERE playlist_id = ? AND user_id = ?`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: detaching songs from playlist %s: %w", id, err)
	}
	return nil
}
