package services

import (
	"context"
	"errors"
	"io"

	"github.com/yoockh/devconnect/internal/models"
	pgrepo "github.com/yoockh/devconnect/internal/repositories/postgres"
	"github.com/yoockh/devconnect/internal/storage"
	"github.com/yoockh/devconnect/internal/utils"
)

type AvatarService interface {
	Upload(ctx context.Context, userID, objectName, contentType string, r io.Reader) (*models.User, error)
}

type ownerChangeNotifier interface {
	OwnerChanged(ctx context.Context, userID string)
}

type avatarService struct {
	users    pgrepo.UserRepository
	uploader storage.Uploader
	profiles ownerChangeNotifier
}

// NewAvatarService accepts a nil uploader; uploads then fail as unavailable.
func NewAvatarService(users pgrepo.UserRepository, uploader storage.Uploader, profiles ownerChangeNotifier) AvatarService {
	return &avatarService{users: users, uploader: uploader, profiles: profiles}
}

func (s *avatarService) Upload(ctx context.Context, userID, objectName, contentType string, r io.Reader) (*models.User, error) {
	const op = "AvatarService.Upload"

	if userID == "" || objectName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and object_name are required", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "avatar upload is not configured", nil)
	}

	url, err := s.uploader.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to store avatar", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload user", err)
	}
	if s.profiles != nil {
		s.profiles.OwnerChanged(ctx, userID)
	}
	return u, nil
}
