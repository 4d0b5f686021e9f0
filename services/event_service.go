package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
	"github.com/velmark/archery-federation/storage"
)

type EventInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	RegDate     time.Time `json:"reg_date"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    *string   `json:"location"`
	Currency    string    `json:"currency"`
}

type EventService interface {
	Create(ctx context.Context, organizerID int, input EventInput) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, id, requesterID int, input EventInput) (*models.Event, error)
	UpdateStatus(ctx context.Context, id, requesterID int, status models.EventStatus) (*models.Event, error)
	UploadPoster(ctx context.Context, id, requesterID int, contentType string, file io.Reader) (*models.Event, error)
	Delete(ctx context.Context, id, requesterID int) error
	// AutoUpdateStatusesByDates advances event statuses whose date
	// boundaries have passed. Run periodically by the scheduler.
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type eventService struct {
	eventRepo    repositories.EventRepository
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	uploader     storage.FileUploader
	emailService *EmailService
	logger       *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	uploader storage.FileUploader,
	emailService *EmailService,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		uploader:     uploader,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID int, input EventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEventNameRequired
	}
	if err := validateEventDates(input.RegDate, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "EUR"
	}

	event := &models.Event{
		Name:        input.Name,
		Description: input.Description,
		OrganizerID: organizerID,
		RegDate:     input.RegDate,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		Currency:    currency,
		Status:      models.EventStatusDraft,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNameConflict) {
			return nil, ErrEventNameConflict
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	populateEventPosterURL(event, s.uploader)

	if organizer, orgErr := s.userRepo.GetByID(ctx, event.OrganizerID); orgErr == nil {
		populateUserDetails(organizer, s.uploader)
		event.Organizer = organizer
	} else {
		s.logger.WarnContext(ctx, "failed to populate event organizer",
			slog.Int("event_id", id), slog.Int("organizer_id", event.OrganizerID), slog.Any("error", orgErr))
	}

	cats, catErr := s.categoryRepo.ListByEvent(ctx, id)
	if catErr != nil {
		s.logger.WarnContext(ctx, "failed to populate event categories",
			slog.Int("event_id", id), slog.Any("error", catErr))
	} else {
		event.Categories = make([]models.CompetitionCategory, 0, len(cats))
		for _, c := range cats {
			event.Categories = append(event.Categories, *c)
		}
	}

	return event, nil
}

func (s *eventService) List(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, event := range events {
		populateEventPosterURL(event, s.uploader)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id, requesterID int, input EventInput) (*models.Event, error) {
	event, err := s.loadOwnedEvent(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		event.Name = input.Name
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if !input.RegDate.IsZero() {
		event.RegDate = input.RegDate
	}
	if !input.StartDate.IsZero() {
		event.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		event.EndDate = input.EndDate
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.Currency != "" {
		event.Currency = input.Currency
	}

	if err := validateEventDates(event.RegDate, event.StartDate, event.EndDate); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNameConflict) {
			return nil, ErrEventNameConflict
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}

	populateEventPosterURL(event, s.uploader)
	return event, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, id, requesterID int, status models.EventStatus) (*models.Event, error) {
	switch status {
	case models.EventStatusDraft, models.EventStatusRegistration, models.EventStatusOngoing,
		models.EventStatusCompleted, models.EventStatusCanceled:
	default:
		return nil, ErrEventInvalidStatus
	}

	event, err := s.loadOwnedEvent(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if !isValidEventStatusTransition(event.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrEventStatusTransition, event.Status, status)
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update status of event %d: %w", id, err)
	}
	event.Status = status

	s.notifyStatusChange(ctx, event)
	return event, nil
}

func (s *eventService) UploadPoster(ctx context.Context, id, requesterID int, contentType string, file io.Reader) (*models.Event, error) {
	event, err := s.loadOwnedEvent(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("event-posters/event_%d%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload poster for event %d: %w", id, err)
	}
	if err := s.eventRepo.UpdatePosterKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store poster key for event %d: %w", id, err)
	}

	event.PosterKey = &key
	populateEventPosterURL(event, s.uploader)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id, requesterID int) error {
	event, err := s.loadOwnedEvent(ctx, id, requesterID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if event.PosterKey != nil && *event.PosterKey != "" {
		_ = s.uploader.Delete(ctx, *event.PosterKey)
	}
	return nil
}

func (s *eventService) AutoUpdateStatusesByDates(ctx context.Context) error {
	due, err := s.eventRepo.ListDueForStatusUpdate(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list events due for status update: %w", err)
	}

	for _, event := range due {
		var next models.EventStatus
		switch event.Status {
		case models.EventStatusDraft:
			next = models.EventStatusRegistration
		case models.EventStatusRegistration:
			next = models.EventStatusOngoing
		case models.EventStatusOngoing:
			next = models.EventStatusCompleted
		default:
			continue
		}

		if err := s.eventRepo.UpdateStatus(ctx, event.ID, next); err != nil {
			s.logger.ErrorContext(ctx, "scheduler: failed to advance event status",
				slog.Int("event_id", event.ID), slog.String("next", string(next)), slog.Any("error", err))
			continue
		}
		s.logger.InfoContext(ctx, "scheduler: event status advanced",
			slog.Int("event_id", event.ID),
			slog.String("from", string(event.Status)),
			slog.String("to", string(next)))

		event.Status = next
		s.notifyStatusChange(ctx, event)
	}
	return nil
}

func (s *eventService) loadOwnedEvent(ctx context.Context, id, requesterID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", id, err)
	}
	if event.OrganizerID != requesterID {
		requester, reqErr := s.userRepo.GetByID(ctx, requesterID)
		if reqErr != nil || requester.Role != models.RoleAdmin {
			return nil, ErrForbiddenOperation
		}
	}
	return event, nil
}

func (s *eventService) notifyStatusChange(ctx context.Context, event *models.Event) {
	if s.emailService == nil {
		return
	}
	organizer, err := s.userRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load organizer for status email",
			slog.Int("event_id", event.ID), slog.Any("error", err))
		return
	}
	if err := s.emailService.SendEventStatusEmail(organizer.Email, event.Name, string(event.Status)); err != nil {
		s.logger.WarnContext(ctx, "failed to send event status email",
			slog.Int("event_id", event.ID), slog.Any("error", err))
	}
}
