package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

var _ repository.UserInfoRepository = (*DB)(nil)

// UpsertUserInfo creates the user's profile row or overwrites it.
func (db *DB) UpsertUserInfo(ctx context.Context, info *model.UserInfo) error {
	info.UpdatedAt = time.Now().UTC()

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO user_info (user_id, location, skills, instrument, updated_at)
		 VALUES (:user_id, :location, :skills, :instrument, :updated_at)
		 ON CONFLICT(user_id) DO UPDATE SET
			location   = excluded.location,
			skills     = excluded.skills,
			instrument = excluded.instrument,
			updated_at = excluded.updated_at`,
		info,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user info for %s: %w", info.UserID, err)
	}
	return nil
}

func (db *DB) GetUserInfo(ctx context.Context, userID string) (*model.UserInfo, error) {
	var info model.UserInfo
	err := db.conn.GetContext(ctx, &info,
		`SELECT user_id, location, skills, instrument, updated_at
		 FROM user_info WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user info", userID, "getting user info for "+userID)
	}
	return &info, nil
}
