package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/velmark/archery-federation/categories"
	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
)

type CategoryInput struct {
	Division      models.Division `json:"division"`
	AgeClass      models.AgeClass `json:"age_class"`
	Gender        models.Gender   `json:"gender"`
	Distance      string          `json:"distance"`
	Quota         int             `json:"quota"`
	Fee           float64         `json:"fee"`
	QInd          bool            `json:"q_ind"`
	EInd          bool            `json:"e_ind"`
	QTeam         bool            `json:"q_team"`
	ETeam         bool            `json:"e_team"`
	QMix          bool            `json:"q_mix"`
	EMix          bool            `json:"e_mix"`
	IsSpecial     bool            `json:"is_special"`
	CategoryLabel string          `json:"category_label"`
}

// GenerateInput drives the category combinator for one event.
type GenerateInput struct {
	Divisions    []models.Division `json:"divisions"`
	AgeClasses   []models.AgeClass `json:"age_classes"`
	Genders      []models.Gender   `json:"genders"`
	DefaultQuota int               `json:"default_quota"`
	DefaultFee   float64           `json:"default_fee"`
	IncludeTeam  bool              `json:"include_team"`
	IncludeMixed bool              `json:"include_mixed"`
}

type CategoryService interface {
	ListByEvent(ctx context.Context, eventID int) ([]*models.CompetitionCategory, error)
	Create(ctx context.Context, eventID, requesterID int, input CategoryInput) (*models.CompetitionCategory, error)
	Update(ctx context.Context, eventID, categoryID, requesterID int, input CategoryInput) (*models.CompetitionCategory, error)
	Delete(ctx context.Context, eventID, categoryID, requesterID int) error
	// Generate runs the combinator over the selected divisions, age classes
	// and genders and appends the whole batch in one transaction. No
	// deduplication against existing categories.
	Generate(ctx context.Context, eventID, requesterID int, input GenerateInput) ([]*models.CompetitionCategory, error)
	PreviewCount(input GenerateInput) int
}

type categoryService struct {
	db           *sql.DB
	categoryRepo repositories.CategoryRepository
	eventRepo    repositories.EventRepository
	userRepo     repositories.UserRepository
}

func NewCategoryService(
	db *sql.DB,
	categoryRepo repositories.CategoryRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
	}
}

func (s *categoryService) ListByEvent(ctx context.Context, eventID int) ([]*models.CompetitionCategory, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	cats, err := s.categoryRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of event %d: %w", eventID, err)
	}
	return cats, nil
}

func (s *categoryService) Create(ctx context.Context, eventID, requesterID int, input CategoryInput) (*models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}
	if input.Quota < 0 || input.Fee < 0 {
		return nil, fmt.Errorf("%w: quota and fee must not be negative", ErrValidationFailed)
	}

	cat := categoryFromInput(eventID, input)
	if cat.Distance == "" {
		cat.Distance = categories.ResolveDistance(cat.Division, cat.AgeClass)
	}
	if err := validateCategoryFlags(&cat); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, s.db, &cat); err != nil {
		if errors.Is(err, repositories.ErrCategoryEventInvalid) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

func (s *categoryService) Update(ctx context.Context, eventID, categoryID, requesterID int, input CategoryInput) (*models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	if existing.EventID != eventID {
		return nil, ErrCategoryNotFound
	}
	if input.Quota < 0 || input.Fee < 0 {
		return nil, fmt.Errorf("%w: quota and fee must not be negative", ErrValidationFailed)
	}

	cat := categoryFromInput(eventID, input)
	cat.ID = categoryID
	cat.CreatedAt = existing.CreatedAt
	if cat.Distance == "" {
		cat.Distance = categories.ResolveDistance(cat.Division, cat.AgeClass)
	}
	if err := validateCategoryFlags(&cat); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, &cat); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category %d: %w", categoryID, err)
	}
	return &cat, nil
}

func (s *categoryService) Delete(ctx context.Context, eventID, categoryID, requesterID int) error {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return err
	}

	existing, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	if existing.EventID != eventID {
		return ErrCategoryNotFound
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", categoryID, err)
	}
	return nil
}

func (s *categoryService) PreviewCount(input GenerateInput) int {
	return combinatorInput(input).PreviewCount()
}

func (s *categoryService) Generate(ctx context.Context, eventID, requesterID int, input GenerateInput) ([]*models.CompetitionCategory, error) {
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	generated, err := categories.Generate(combinatorInput(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	created := make([]*models.CompetitionCategory, 0, len(generated))
	for i := range generated {
		cat := generated[i]
		cat.EventID = eventID
		if err := s.categoryRepo.Create(ctx, tx, &cat); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to insert generated category: %w", err)
		}
		created = append(created, &cat)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit generated categories: %w", err)
	}
	return created, nil
}

func (s *categoryService) loadEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *categoryService) authorizeOrganizer(ctx context.Context, eventID, requesterID int) error {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
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

func categoryFromInput(eventID int, input CategoryInput) models.CompetitionCategory {
	return models.CompetitionCategory{
		EventID:       eventID,
		Division:      input.Division,
		AgeClass:      input.AgeClass,
		Gender:        input.Gender,
		Distance:      input.Distance,
		Quota:         input.Quota,
		Fee:           input.Fee,
		QInd:          input.QInd,
		EInd:          input.EInd,
		QTeam:         input.QTeam,
		ETeam:         input.ETeam,
		QMix:          input.QMix,
		EMix:          input.EMix,
		IsSpecial:     input.IsSpecial,
		CategoryLabel: input.CategoryLabel,
	}
}

func combinatorInput(input GenerateInput) categories.CombinatorInput {
	return categories.CombinatorInput{
		Divisions:    input.Divisions,
		AgeClasses:   input.AgeClasses,
		Genders:      input.Genders,
		DefaultQuota: input.DefaultQuota,
		DefaultFee:   input.DefaultFee,
		IncludeTeam:  input.IncludeTeam,
		IncludeMixed: input.IncludeMixed,
	}
}
