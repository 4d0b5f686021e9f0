package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/velmark/archery-federation/brackets"
	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
)

// MatchView is one match as presented in the bracket, with athlete names
// resolved from the underlying registrations.
type MatchView struct {
	ID           int                `json:"id"`
	Round        int                `json:"round"`
	MatchNumber  int                `json:"match_number"`
	Athlete1ID   *int               `json:"athlete1_id"`
	Athlete2ID   *int               `json:"athlete2_id"`
	Athlete1Name string             `json:"athlete1_name"`
	Athlete2Name string             `json:"athlete2_name"`
	Score1       int                `json:"score1"`
	Score2       int                `json:"score2"`
	Status       models.MatchStatus `json:"status"`
	WinnerID     *int               `json:"winner_id"`
	NextMatchID  *int               `json:"next_match_id"`
	WinnerToSlot *int               `json:"winner_to_slot"`
}

type BracketRound struct {
	Round   int         `json:"round"`
	Name    string      `json:"name"`
	Matches []MatchView `json:"matches"`
}

type BracketView struct {
	EventID    int            `json:"event_id"`
	CategoryID int            `json:"category_id"`
	Rounds     []BracketRound `json:"rounds"`
}

type BracketService interface {
	// Generate rebuilds the category's elimination bracket from its
	// confirmed registrations. Any previously generated matches for the
	// category are discarded.
	Generate(ctx context.Context, eventID, categoryID, requesterID int, policy brackets.ByePolicy) (*BracketView, error)
	GetBracket(ctx context.Context, eventID, categoryID int) (*BracketView, error)
}

type bracketService struct {
	tx               repositories.Transactor
	matchRepo        repositories.MatchRepository
	registrationRepo repositories.RegistrationRepository
	categoryRepo     repositories.CategoryRepository
	eventRepo        repositories.EventRepository
	userRepo         repositories.UserRepository
	generator        brackets.Generator
	hub              *brackets.Hub
	logger           *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	registrationRepo repositories.RegistrationRepository,
	categoryRepo repositories.CategoryRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	generator brackets.Generator,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:               tx,
		matchRepo:        matchRepo,
		registrationRepo: registrationRepo,
		categoryRepo:     categoryRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		generator:        generator,
		hub:              hub,
		logger:           logger,
	}
}

func (s *bracketService) Generate(ctx context.Context, eventID, categoryID, requesterID int, policy brackets.ByePolicy) (*BracketView, error) {
	category, err := s.loadCategory(ctx, eventID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrganizer(ctx, eventID, requesterID); err != nil {
		return nil, err
	}

	confirmed := models.RegistrationConfirmed
	entries, err := s.registrationRepo.ListByCategory(ctx, categoryID, &confirmed, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed registrations for category %d: %w", categoryID, err)
	}

	generated, err := s.generator.Generate(ctx, brackets.GenerateParams{
		Category:  category,
		Entries:   entries,
		ByePolicy: policy,
	})
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrNoParticipants):
			return nil, ErrBracketNoParticipants
		case errors.Is(err, brackets.ErrNotEnoughParticipants):
			return nil, ErrBracketNotEnoughEntries
		}
		return nil, fmt.Errorf("bracket generation failed for category %d: %w", categoryID, err)
	}

	var created []*models.Match
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		created, txErr = s.persistBracket(ctx, exec, eventID, categoryID, generated)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("event_id", eventID),
		slog.Int("category_id", categoryID),
		slog.String("generator", s.generator.Name()),
		slog.Int("entries", len(entries)),
		slog.Int("matches", len(created)))

	names, err := s.loadEntryNames(ctx, categoryID)
	if err != nil {
		// The bracket is already committed; return it with unresolved names.
		s.logger.WarnContext(ctx, "failed to load entry names for generated bracket",
			slog.Int("category_id", categoryID), slog.Any("error", err))
		names = map[int]string{}
	}
	view := buildBracketView(eventID, categoryID, created, names)

	if s.hub != nil {
		s.hub.BroadcastToRoom(eventRoom(eventID), brackets.Message{
			Type:    brackets.MessageBracketGenerated,
			Payload: view,
		})
	}
	return view, nil
}

func (s *bracketService) GetBracket(ctx context.Context, eventID, categoryID int) (*BracketView, error) {
	if _, err := s.loadCategory(ctx, eventID, categoryID); err != nil {
		return nil, err
	}

	var (
		matches []*models.Match
		names   map[int]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByCategory(gctx, eventID, categoryID)
		if err != nil {
			return fmt.Errorf("failed to load matches for category %d: %w", categoryID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		names, err = s.loadEntryNames(gctx, categoryID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(matches) > 0 && !brackets.IsValidRoundSequence(roundSizes(matches)) {
		return nil, fmt.Errorf("bracket for category %d has an inconsistent round sequence", categoryID)
	}

	return buildBracketView(eventID, categoryID, matches, names), nil
}

// roundSizes returns the distinct round sizes present, sorted descending.
func roundSizes(matches []*models.Match) []int {
	seen := make(map[int]struct{})
	sizes := make([]int, 0)
	for _, m := range matches {
		if _, ok := seen[m.Round]; ok {
			continue
		}
		seen[m.Round] = struct{}{}
		sizes = append(sizes, m.Round)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// persistBracket inserts generated matches round by round and links each match
// to the one its winner advances to. The generator emits rounds in descending
// order, so every feeder's target already exists when its link is written.
func (s *bracketService) persistBracket(ctx context.Context, exec repositories.SQLExecutor, eventID, categoryID int, generated []*brackets.BracketMatch) ([]*models.Match, error) {
	if err := s.matchRepo.DeleteByCategory(ctx, exec, eventID, categoryID); err != nil {
		return nil, fmt.Errorf("failed to clear previous bracket for category %d: %w", categoryID, err)
	}

	type slot struct{ round, number int }
	byPosition := make(map[slot]*models.Match, len(generated))

	created := make([]*models.Match, 0, len(generated))
	for _, bm := range generated {
		match := &models.Match{
			EventID:     eventID,
			CategoryID:  categoryID,
			Round:       bm.Round,
			MatchNumber: bm.MatchNumber,
			Athlete1ID:  bm.Athlete1ID,
			Athlete2ID:  bm.Athlete2ID,
			Status:      bm.Status,
			WinnerID:    bm.WinnerID,
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return nil, fmt.Errorf("failed to insert match %d of round %d: %w", bm.MatchNumber, bm.Round, err)
		}
		byPosition[slot{bm.Round, bm.MatchNumber}] = match
		created = append(created, match)
	}

	for _, match := range created {
		if match.Round == 2 {
			continue
		}
		nextNumber := (match.MatchNumber + 1) / 2
		next, ok := byPosition[slot{match.Round / 2, nextNumber}]
		if !ok {
			return nil, fmt.Errorf("bracket for category %d is missing match %d of round %d", categoryID, nextNumber, match.Round/2)
		}
		toSlot := 2
		if match.MatchNumber%2 == 1 {
			toSlot = 1
		}
		if err := s.matchRepo.UpdateNextMatchInfo(ctx, exec, match.ID, &next.ID, &toSlot); err != nil {
			return nil, fmt.Errorf("failed to link match %d to its successor: %w", match.ID, err)
		}
		match.NextMatchID = &next.ID
		match.WinnerToSlot = &toSlot
	}

	return created, nil
}

// loadEntryNames maps registration IDs to display names for the whole
// category, since matches reference athletes through their registration.
func (s *bracketService) loadEntryNames(ctx context.Context, categoryID int) (map[int]string, error) {
	regs, err := s.registrationRepo.ListByCategory(ctx, categoryID, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations for category %d: %w", categoryID, err)
	}
	names := make(map[int]string, len(regs))
	for _, reg := range regs {
		names[reg.ID] = athleteDisplayName(reg.Athlete)
	}
	return names, nil
}

// buildBracketView groups matches into named rounds, first round first.
func buildBracketView(eventID, categoryID int, matches []*models.Match, names map[int]string) *BracketView {
	byRound := make(map[int][]MatchView)
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], MatchView{
			ID:           m.ID,
			Round:        m.Round,
			MatchNumber:  m.MatchNumber,
			Athlete1ID:   m.Athlete1ID,
			Athlete2ID:   m.Athlete2ID,
			Athlete1Name: slotName(m.Athlete1ID, names),
			Athlete2Name: slotName(m.Athlete2ID, names),
			Score1:       m.Score1,
			Score2:       m.Score2,
			Status:       m.Status,
			WinnerID:     m.WinnerID,
			NextMatchID:  m.NextMatchID,
			WinnerToSlot: m.WinnerToSlot,
		})
	}

	rounds := make([]BracketRound, 0, len(byRound))
	for round, views := range byRound {
		sort.Slice(views, func(i, j int) bool { return views[i].MatchNumber < views[j].MatchNumber })
		rounds = append(rounds, BracketRound{
			Round:   round,
			Name:    brackets.RoundName(round),
			Matches: views,
		})
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Round > rounds[j].Round })

	return &BracketView{EventID: eventID, CategoryID: categoryID, Rounds: rounds}
}

func (s *bracketService) loadCategory(ctx context.Context, eventID, categoryID int) (*models.CompetitionCategory, error) {
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
	return category, nil
}

func (s *bracketService) authorizeOrganizer(ctx context.Context, eventID, requesterID int) error {
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

func slotName(regID *int, names map[int]string) string {
	if regID == nil {
		return "BYE"
	}
	if name, ok := names[*regID]; ok {
		return name
	}
	return fmt.Sprintf("Entry %d", *regID)
}

func eventRoom(eventID int) string {
	return fmt.Sprintf("event_%d", eventID)
}
