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

type CertificateService interface {
	// Upload stores the certificate file and records it for the athlete.
	Upload(ctx context.Context, eventID, athleteID, requesterID int, contentType string, file io.Reader) (*models.Certificate, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Certificate, error)
	Delete(ctx context.Context, certificateID, requesterID int) error
}

type certificateService struct {
	certificateRepo repositories.CertificateRepository
	eventRepo       repositories.EventRepository
	userRepo        repositories.UserRepository
	uploader        storage.FileUploader
}

func NewCertificateService(
	certificateRepo repositories.CertificateRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) CertificateService {
	return &certificateService{
		certificateRepo: certificateRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		uploader:        uploader,
	}
}

func (s *certificateService) Upload(ctx context.Context, eventID, athleteID, requesterID int, contentType string, file io.Reader) (*models.Certificate, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, athleteID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify athlete %d: %w", athleteID, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("certificates/event_%d_athlete_%d%s", eventID, athleteID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload certificate for athlete %d: %w", athleteID, err)
	}

	cert := &models.Certificate{
		EventID:   eventID,
		AthleteID: athleteID,
		FileKey:   key,
	}
	if err := s.certificateRepo.Create(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to record certificate: %w", err)
	}

	s.populateFileURL(cert)
	return cert, nil
}

func (s *certificateService) ListByEvent(ctx context.Context, eventID int) ([]*models.Certificate, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}

	certs, err := s.certificateRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates of event %d: %w", eventID, err)
	}
	for _, cert := range certs {
		s.populateFileURL(cert)
	}
	return certs, nil
}

func (s *certificateService) Delete(ctx context.Context, certificateID, requesterID int) error {
	// Certificates are event-scoped; only admins may remove them after issue.
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil || requester.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}

	if err := s.certificateRepo.Delete(ctx, certificateID); err != nil {
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return ErrCertificateNotFound
		}
		return fmt.Errorf("failed to delete certificate %d: %w", certificateID, err)
	}
	return nil
}

func (s *certificateService) authorizeOrganizer(ctx context.Context, eventID, requesterID int) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	if event.OrganizerID == requesterID {
		return nil
	}
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil || requester.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *certificateService) populateFileURL(cert *models.Certificate) {
	if cert != nil && cert.FileKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(cert.FileKey); url != "" {
			cert.FileURL = &url
		}
	}
}
