package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
	"github.com/sakif/songbook/internal/view"
)

const (
	MaxLocationLength   = 100
	MaxSkillsLength     = 500
	MaxInstrumentLength = 100
)

// UserInfoService keeps the optional musician profile of a user.
type UserInfoService struct {
	infos  repository.UserInfoRepository
	logger *slog.Logger
}

func NewUserInfoService(infos repository.UserInfoRepository, logger *slog.Logger) *UserInfoService {
	return &UserInfoService{infos: infos, logger: logger}
}

// SetCurrentUserInfo creates the profile or overwrites every field of it.
func (s *UserInfoService) SetCurrentUserInfo(ctx context.Context, userID, location, skills, instrument string) (*view.UserInfoView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var err error
	if location, err = cleanText("location", location, MaxLocationLength, false); err != nil {
		return nil, err
	}
	if skills, err = cleanText("skills", skills, MaxSkillsLength, false); err != nil {
		return nil, err
	}
	if instrument, err = cleanText("instrument", instrument, MaxInstrumentLength, false); err != nil {
		return nil, err
	}

	info := &model.UserInfo{
		UserID:     userID,
		Location:   location,
		Skills:     skills,
		Instrument: instrument,
	}
	if err := s.infos.UpsertUserInfo(ctx, info); err != nil {
		return nil, fmt.Errorf("saving user info: %w", err)
	}

	s.logger.Info("user info saved", slog.String("userID", userID))

	v := view.UserInfoFromModel(info)
	return &v, nil
}

// GetUserInfo returns the profile, or an empty one if it was never set.
func (s *UserInfoService) GetUserInfo(ctx context.Context, userID string) (*view.UserInfoView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	info, err := s.infos.GetUserInfo(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		info = &model.UserInfo{UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("getting user info: %w", err)
	}

	v := view.UserInfoFromModel(info)
	return &v, nil
}
