package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
	"github.com/velmark/archery-federation/storage"
)

type ClubInput struct {
	Name   string  `json:"name"`
	Region *string `json:"region"`
}

type ClubService interface {
	Create(ctx context.Context, input ClubInput) (*models.Club, error)
	GetByID(ctx context.Context, id int) (*models.Club, error)
	List(ctx context.Context) ([]*models.Club, error)
	Update(ctx context.Context, id int, input ClubInput) (*models.Club, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Club, error)
	Delete(ctx context.Context, id int) error
}

type clubService struct {
	clubRepo repositories.ClubRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewClubService(clubRepo repositories.ClubRepository, userRepo repositories.UserRepository, uploader storage.FileUploader) ClubService {
	return &clubService{clubRepo: clubRepo, userRepo: userRepo, uploader: uploader}
}

func (s *clubService) Create(ctx context.Context, input ClubInput) (*models.Club, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: club name is required", ErrValidationFailed)
	}

	club := &models.Club{Name: input.Name, Region: input.Region}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

func (s *clubService) GetByID(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club %d: %w", id, err)
	}

	members, err := s.userRepo.ListByClub(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of club %d: %w", id, err)
	}
	club.Members = make([]models.User, 0, len(members))
	for _, m := range members {
		populateUserDetails(m, s.uploader)
		club.Members = append(club.Members, *m)
	}

	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) List(ctx context.Context) ([]*models.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	for _, club := range clubs {
		populateClubLogoURL(club, s.uploader)
	}
	return clubs, nil
}

func (s *clubService) Update(ctx context.Context, id int, input ClubInput) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to load club %d for update: %w", id, err)
	}

	if strings.TrimSpace(input.Name) != "" {
		club.Name = input.Name
	}
	if input.Region != nil {
		club.Region = input.Region
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to update club %d: %w", id, err)
	}

	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to load club %d for logo upload: %w", id, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("club-logos/club_%d%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo for club %d: %w", id, err)
	}
	if err := s.clubRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for club %d: %w", id, err)
	}

	club.LogoKey = &key
	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) Delete(ctx context.Context, id int) error {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to load club %d for deletion: %w", id, err)
	}

	if err := s.clubRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete club %d: %w", id, err)
	}
	if club.LogoKey != nil && *club.LogoKey != "" {
		// Best effort: the DB row is already gone.
		_ = s.uploader.Delete(ctx, *club.LogoKey)
	}
	return nil
}
