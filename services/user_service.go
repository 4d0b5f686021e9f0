package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
	"github.com/velmark/archery-federation/storage"
)

type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Nickname  *string `json:"nickname"`
	ClubID    *int    `json:"club_id"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error)
	UploadAvatar(ctx context.Context, id int, contentType string, file io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	clubRepo repositories.ClubRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, clubRepo repositories.ClubRepository, uploader storage.FileUploader) UserService {
	return &userService{userRepo: userRepo, clubRepo: clubRepo, uploader: uploader}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	if user.ClubID != nil {
		club, clubErr := s.clubRepo.GetByID(ctx, *user.ClubID)
		if clubErr == nil {
			populateClubLogoURL(club, s.uploader)
			user.Club = club
		}
	}

	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d for update: %w", id, err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Nickname != nil {
		user.Nickname = input.Nickname
	}
	if input.ClubID != nil {
		if *input.ClubID == 0 {
			user.ClubID = nil
		} else {
			if _, clubErr := s.clubRepo.GetByID(ctx, *input.ClubID); clubErr != nil {
				if errors.Is(clubErr, repositories.ErrClubNotFound) {
					return nil, ErrClubNotFound
				}
				return nil, fmt.Errorf("failed to verify club %d: %w", *input.ClubID, clubErr)
			}
			user.ClubID = input.ClubID
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, id int, contentType string, file io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d for avatar upload: %w", id, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("avatars/user_%d%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar for user %d: %w", id, err)
	}
	if err := s.userRepo.UpdateAvatarKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store avatar key for user %d: %w", id, err)
	}

	user.AvatarKey = &key
	populateUserDetails(user, s.uploader)
	return user, nil
}
