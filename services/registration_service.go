package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
	"github.com/velmark/archery-federation/storage"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID, categoryID, athleteID int) (*models.Registration, error)
	ListByCategory(ctx context.Context, categoryID int, status *models.RegistrationStatus) ([]*models.Registration, error)
	UpdateStatus(ctx context.Context, registrationID, requesterID int, status models.RegistrationStatus) (*models.Registration, error)
	Withdraw(ctx context.Context, registrationID, requesterID int) error
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	categoryRepo     repositories.CategoryRepository
	eventRepo        repositories.EventRepository
	userRepo         repositories.UserRepository
	uploader         storage.FileUploader
	emailService     *EmailService
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	categoryRepo repositories.CategoryRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	emailService *EmailService,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		categoryRepo:     categoryRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		uploader:         uploader,
		emailService:     emailService,
		logger:           logger,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, categoryID, athleteID int) (*models.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	if event.Status != models.EventStatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	if category.EventID != eventID {
		return nil, ErrCategoryNotFound
	}

	if category.Quota > 0 {
		// Declined registrations free their slot again.
		count, countErr := s.registrationRepo.CountByCategory(ctx, categoryID,
			models.RegistrationPending, models.RegistrationConfirmed)
		if countErr != nil {
			return nil, fmt.Errorf("failed to count registrations for category %d: %w", categoryID, countErr)
		}
		if count >= category.Quota {
			return nil, ErrCategoryFull
		}
	}

	reg := &models.Registration{
		EventID:    eventID,
		CategoryID: categoryID,
		AthleteID:  athleteID,
		Status:     models.RegistrationPending,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListByCategory(ctx context.Context, categoryID int, status *models.RegistrationStatus) ([]*models.Registration, error) {
	regs, err := s.registrationRepo.ListByCategory(ctx, categoryID, status, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations of category %d: %w", categoryID, err)
	}
	for _, reg := range regs {
		populateUserDetails(reg.Athlete, s.uploader)
	}
	return regs, nil
}

func (s *registrationService) UpdateStatus(ctx context.Context, registrationID, requesterID int, status models.RegistrationStatus) (*models.Registration, error) {
	switch status {
	case models.RegistrationPending, models.RegistrationConfirmed, models.RegistrationDeclined:
	default:
		return nil, fmt.Errorf("%w: unknown registration status %q", ErrValidationFailed, status)
	}

	reg, err := s.loadRegistrationForOrganizer(ctx, registrationID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := s.registrationRepo.UpdateStatus(ctx, registrationID, status); err != nil {
		return nil, fmt.Errorf("failed to update registration %d: %w", registrationID, err)
	}
	reg.Status = status

	if status == models.RegistrationConfirmed && s.emailService != nil {
		if athlete, athErr := s.userRepo.GetByID(ctx, reg.AthleteID); athErr == nil {
			if event, evErr := s.eventRepo.GetByID(ctx, reg.EventID); evErr == nil {
				if mailErr := s.emailService.SendRegistrationConfirmedEmail(athlete.Email, event.Name); mailErr != nil {
					s.logger.WarnContext(ctx, "failed to send registration confirmation email",
						slog.Int("registration_id", registrationID), slog.Any("error", mailErr))
				}
			}
		}
	}

	return reg, nil
}

func (s *registrationService) Withdraw(ctx context.Context, registrationID, requesterID int) error {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to load registration %d: %w", registrationID, err)
	}

	// The athlete themselves, the event organizer, or an admin may withdraw.
	if reg.AthleteID != requesterID {
		if _, authErr := s.loadRegistrationForOrganizer(ctx, registrationID, requesterID); authErr != nil {
			return authErr
		}
	}

	if err := s.registrationRepo.Delete(ctx, registrationID); err != nil {
		return fmt.Errorf("failed to delete registration %d: %w", registrationID, err)
	}
	return nil
}

func (s *registrationService) loadRegistrationForOrganizer(ctx context.Context, registrationID, requesterID int) (*models.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration %d: %w", registrationID, err)
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", reg.EventID, err)
	}
	if event.OrganizerID == requesterID {
		return reg, nil
	}
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil || requester.Role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	return reg, nil
}
