package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/velmark/archery-federation/categories"
	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
)

// CategoryDraftService keeps one in-memory category draft per event.
// Organizers compose the list tile by tile, edit entries one at a time, and
// publish the whole draft to the event in a single transaction. Drafts do not
// survive a restart.
type CategoryDraftService interface {
	Add(ctx context.Context, eventID, requesterID int, input CategoryInput) (models.CompetitionCategory, error)
	// Generate runs the combinator over the selection and appends the whole
	// batch to the draft.
	Generate(ctx context.Context, eventID, requesterID int, input GenerateInput) ([]models.CompetitionCategory, error)
	List(ctx context.Context, eventID, requesterID int) ([]models.CompetitionCategory, error)
	PreviewTiles(ctx context.Context, eventID, requesterID int) ([]categories.PreviewTile, error)
	// BeginEdit stages the draft entry for editing. Only one entry may be in
	// edit at a time.
	BeginEdit(ctx context.Context, eventID, requesterID, draftID int) (models.CompetitionCategory, error)
	CommitEdit(ctx context.Context, eventID, requesterID int, input CategoryInput) (models.CompetitionCategory, error)
	CancelEdit(ctx context.Context, eventID, requesterID int) error
	Remove(ctx context.Context, eventID, requesterID, draftID int) error
	// Publish persists every draft entry to the database and clears the draft.
	Publish(ctx context.Context, eventID, requesterID int) ([]*models.CompetitionCategory, error)
	Discard(ctx context.Context, eventID, requesterID int) error
}

type categoryDraftService struct {
	tx           repositories.Transactor
	categoryRepo repositories.CategoryRepository
	eventRepo    repositories.EventRepository
	userRepo     repositories.UserRepository

	mu     sync.Mutex
	drafts map[int]*categories.Registry
}

func NewCategoryDraftService(
	tx repositories.Transactor,
	categoryRepo repositories.CategoryRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
) CategoryDraftService {
	return &categoryDraftService{
		tx:           tx,
		categoryRepo: categoryRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		drafts:       make(map[int]*categories.Registry),
	}
}

func (s *categoryDraftService) Add(ctx context.Context, eventID, requesterID int, input CategoryInput) (models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return models.CompetitionCategory{}, err
	}
	if input.Quota < 0 || input.Fee < 0 {
		return models.CompetitionCategory{}, fmt.Errorf("%w: quota and fee must not be negative", ErrValidationFailed)
	}

	cat := categoryFromInput(eventID, input)
	if cat.Distance == "" {
		cat.Distance = categories.ResolveDistance(cat.Division, cat.AgeClass)
	}
	if err := validateCategoryFlags(&cat); err != nil {
		return models.CompetitionCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry(eventID).Add(cat), nil
}

func (s *categoryDraftService) Generate(ctx context.Context, eventID, requesterID int, input GenerateInput) ([]models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	generated, err := categories.Generate(combinatorInput(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	for i := range generated {
		generated[i].EventID = eventID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry(eventID).AddBatch(generated), nil
}

func (s *categoryDraftService) List(ctx context.Context, eventID, requesterID int) ([]models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry(eventID).List(), nil
}

func (s *categoryDraftService) PreviewTiles(ctx context.Context, eventID, requesterID int) ([]categories.PreviewTile, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry(eventID).PreviewTiles(), nil
}

func (s *categoryDraftService) BeginEdit(ctx context.Context, eventID, requesterID, draftID int) (models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return models.CompetitionCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cat, err := s.registry(eventID).BeginEdit(draftID)
	if err != nil {
		return models.CompetitionCategory{}, mapRegistryError(err)
	}
	return cat, nil
}

func (s *categoryDraftService) CommitEdit(ctx context.Context, eventID, requesterID int, input CategoryInput) (models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return models.CompetitionCategory{}, err
	}
	if input.Quota < 0 || input.Fee < 0 {
		return models.CompetitionCategory{}, fmt.Errorf("%w: quota and fee must not be negative", ErrValidationFailed)
	}

	cat := categoryFromInput(eventID, input)
	if cat.Distance == "" {
		cat.Distance = categories.ResolveDistance(cat.Division, cat.AgeClass)
	}
	if err := validateCategoryFlags(&cat); err != nil {
		return models.CompetitionCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	registry := s.registry(eventID)
	if err := registry.UpdateStaged(cat); err != nil {
		return models.CompetitionCategory{}, mapRegistryError(err)
	}
	committed, err := registry.CommitEdit()
	if err != nil {
		return models.CompetitionCategory{}, mapRegistryError(err)
	}
	return committed, nil
}

func (s *categoryDraftService) CancelEdit(ctx context.Context, eventID, requesterID int) error {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry(eventID).CancelEdit()
	return nil
}

func (s *categoryDraftService) Remove(ctx context.Context, eventID, requesterID, draftID int) error {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registry(eventID).Remove(draftID); err != nil {
		return mapRegistryError(err)
	}
	return nil
}

func (s *categoryDraftService) Publish(ctx context.Context, eventID, requesterID int) ([]*models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	drafted := s.registry(eventID).List()
	s.mu.Unlock()
	if len(drafted) == 0 {
		return nil, ErrDraftEmpty
	}

	created := make([]*models.CompetitionCategory, 0, len(drafted))
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for i := range drafted {
			cat := drafted[i]
			// Draft ids are registry-local; the database assigns real ones.
			cat.ID = 0
			cat.EventID = eventID
			if err := s.categoryRepo.Create(ctx, exec, &cat); err != nil {
				return fmt.Errorf("failed to publish draft category: %w", err)
			}
			created = append(created, &cat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, eventID)
	s.mu.Unlock()
	return created, nil
}

func (s *categoryDraftService) Discard(ctx context.Context, eventID, requesterID int) error {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, eventID)
	return nil
}

// registry returns the event's draft, creating it on first use. Callers must
// hold s.mu.
func (s *categoryDraftService) registry(eventID int) *categories.Registry {
	registry, ok := s.drafts[eventID]
	if !ok {
		registry = categories.NewRegistry()
		s.drafts[eventID] = registry
	}
	return registry
}

func (s *categoryDraftService) authorizeOrganizer(ctx context.Context, eventID, requesterID int) error {
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

func mapRegistryError(err error) error {
	switch {
	case errors.Is(err, categories.ErrEditInProgress):
		return ErrDraftEditInProgress
	case errors.Is(err, categories.ErrNoEditInProgress):
		return ErrDraftNoEditInProgress
	case errors.Is(err, categories.ErrCategoryNotFound):
		return ErrDraftEntryNotFound
	}
	return err
}
