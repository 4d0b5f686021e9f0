package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/velmark/archery-federation/brackets"
	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
)

type MatchResultInput struct {
	Score1   int                `json:"score1"`
	Score2   int                `json:"score2"`
	Status   models.MatchStatus `json:"status"`
	WinnerID *int               `json:"winner_id"`
}

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// RecordResult applies a score update or completes the match. Completing
	// propagates the winner into the slot of the match it feeds.
	RecordResult(ctx context.Context, matchID, requesterID int, input MatchResultInput) (*models.Match, error)
}

type matchService struct {
	tx        repositories.Transactor
	matchRepo repositories.MatchRepository
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:        tx,
		matchRepo: matchRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) RecordResult(ctx context.Context, matchID, requesterID int, input MatchResultInput) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrganizer(ctx, match.EventID, requesterID); err != nil {
		return nil, err
	}

	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if !isValidMatchStatusTransition(match.Status, input.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrMatchInvalidTransition, match.Status, input.Status)
	}
	if match.Athlete1ID == nil || match.Athlete2ID == nil {
		// Byes are decided at generation time or confirmed without scores.
		if !match.IsBye() || input.Status != models.MatchStatusCompleted {
			return nil, ErrMatchSlotsIncomplete
		}
	}

	if input.Status == models.MatchStatusCompleted {
		if input.WinnerID == nil {
			return nil, ErrMatchWinnerRequired
		}
		winner := *input.WinnerID
		in1 := match.Athlete1ID != nil && *match.Athlete1ID == winner
		in2 := match.Athlete2ID != nil && *match.Athlete2ID == winner
		if !in1 && !in2 {
			return nil, ErrMatchWinnerNotInMatch
		}
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateResult(ctx, exec, matchID, input.Score1, input.Score2, input.Status, input.WinnerID); err != nil {
			return fmt.Errorf("failed to update match %d: %w", matchID, err)
		}
		if input.Status == models.MatchStatusCompleted && match.NextMatchID != nil && match.WinnerToSlot != nil {
			if err := s.matchRepo.SetAthleteSlot(ctx, exec, *match.NextMatchID, *match.WinnerToSlot, input.WinnerID); err != nil {
				return fmt.Errorf("failed to propagate winner of match %d: %w", matchID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.Score1 = input.Score1
	match.Score2 = input.Score2
	match.Status = input.Status
	match.WinnerID = input.WinnerID

	s.logger.InfoContext(ctx, "match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("event_id", match.EventID),
		slog.String("status", string(match.Status)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(eventRoom(match.EventID), brackets.Message{
			Type:    brackets.MessageMatchUpdated,
			Payload: match,
		})
	}
	return match, nil
}

func (s *matchService) authorizeOrganizer(ctx context.Context, eventID, requesterID int) error {
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

func isValidMatchStatusTransition(current, next models.MatchStatus) bool {
	switch current {
	case models.MatchStatusPending:
		return next == models.MatchStatusInProgress || next == models.MatchStatusCompleted
	case models.MatchStatusInProgress:
		return next == models.MatchStatusInProgress || next == models.MatchStatusCompleted
	default:
		return false
	}
}
