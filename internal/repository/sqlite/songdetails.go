package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

var _ repository.SongDetailsRepository = (*DB)(nil)

// songDetailsRecord stores the chord list as a JSON array in a TEXT column.
type songDetailsRecord struct {
	SongID    string    `db:"song_id"`
	UserID    string    `db:"user_id"`
	Key       string    `db:"song_key"`
	ChordList string    `db:"chord_list"`
	Notes     string    `db:"notes"`
	LyricLink string    `db:"lyric_link"`
	TabLink   string    `db:"tab_link"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *songDetailsRecord) toModel() (*model.SongDetails, error) {
	chords := []string{}
	if r.ChordList != "" {
		if err := json.Unmarshal([]byte(r.ChordList), &chords); err != nil {
			return nil, fmt.Errorf("decoding chord list: %w", err)
		}
	}
	return &model.SongDetails{
		SongID:    r.SongID,
		UserID:    r.UserID,
		Key:       r.Key,
		ChordList: chords,
		Notes:     r.Notes,
		LyricLink: r.LyricLink,
		TabLink:   r.TabLink,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (db *DB) UpsertSongDetails(ctx context.Context, d *model.SongDetails) error {
	chords := d.ChordList
	if chords == nil {
		chords = []string{}
	}
	encoded, err := json.Marshal(chords)
	if err != nil {
		return fmt.Errorf("sqlite: encoding chord list for song %s: %w", d.SongID, err)
	}
	d.UpdatedAt = time.Now().UTC()

	rec := songDetailsRecord{
		SongID:    d.SongID,
		UserID:    d.UserID,
		Key:       d.Key,
		ChordList: string(encoded),
		Notes:     d.Notes,
		LyricLink: d.LyricLink,
		TabLink:   d.TabLink,
		UpdatedAt: d.UpdatedAt,
	}

	_, err = db.conn.NamedExecContext(ctx,
		`INSERT INTO song_details (song_id, user_id, song_key, chord_list, notes, lyric_link, tab_link, updated_at)
		 VALUES (:song_id, :user_id, :song_key, :chord_list, :notes, :lyric_link, :tab_link, :updated_at)
		 ON CONFLICT(song_id) DO UPDATE SET
			song_key   = excluded.song_key,
			chord_list = excluded.chord_list,
			notes      = excluded.notes,
			lyric_link = excluded.lyric_link,
			tab_link   = excluded.tab_link,
			updated_at = excluded.updated_at
		 WHERE song_details.user_id = excluded.user_id`,
		rec,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting details for song %s: %w", d.SongID, err)
	}
	return nil
}

func (db *DB) GetSongDetails(ctx context.Context, userID, songID string) (*model.SongDetails, error) {
	var rec songDetailsRecord
	err := db.conn.GetContext(ctx, &rec,
		`SELECT song_id, user_id, song_key, chord_list, notes, lyric_link, tab_link, updated_at
		 FROM song_details WHERE song_id = ? AND user_id = ?`,
		songID, userID,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err, "song details", songID, "getting details for song "+songID)
	}

	d, err := rec.toModel()
	if err != nil {
		return nil, fmt.Errorf("sqlite: song %s: %w", songID, err)
	}
	return d, nil
}
