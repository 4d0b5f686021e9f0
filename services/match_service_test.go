package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/archery-federation/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func matchServiceFixture(match *models.Match) (MatchService, *fakeMatchRepo) {
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	athlete := &models.User{ID: 7, Role: models.RoleAthlete}
	event := &models.Event{ID: match.EventID, OrganizerID: organizer.ID, Status: models.EventStatusOngoing}

	matchRepo := newFakeMatchRepo(match)
	svc := NewMatchService(fakeTransactor{}, matchRepo, newFakeEventRepo(event), newFakeUserRepo(organizer, athlete), nil, testLogger())
	return svc, matchRepo
}

func TestRecordResultPropagatesWinner(t *testing.T) {
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	event := &models.Event{ID: 10, OrganizerID: 1, Status: models.EventStatusOngoing}

	semi := &models.Match{
		ID: 1, EventID: 10, CategoryID: 20, Round: 4, MatchNumber: 1,
		Athlete1ID: intPtr(100), Athlete2ID: intPtr(200),
		Status:      models.MatchStatusInProgress,
		NextMatchID: intPtr(2), WinnerToSlot: intPtr(1),
	}
	final := &models.Match{ID: 2, EventID: 10, CategoryID: 20, Round: 2, MatchNumber: 1, Status: models.MatchStatusPending}

	matchRepo := newFakeMatchRepo(semi, final)
	svc := NewMatchService(fakeTransactor{}, matchRepo, newFakeEventRepo(event), newFakeUserRepo(organizer), nil, testLogger())

	updated, err := svc.RecordResult(context.Background(), 1, 1, MatchResultInput{
		Score1: 6, Score2: 2, Status: models.MatchStatusCompleted, WinnerID: intPtr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, updated.Status)
	assert.Equal(t, 6, updated.Score1)

	stored, err := matchRepo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, stored.Athlete1ID)
	assert.Equal(t, 100, *stored.Athlete1ID)
	assert.Nil(t, stored.Athlete2ID)
}

func TestRecordResultMatchNotFound(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{ID: 1, EventID: 10})

	_, err := svc.RecordResult(context.Background(), 99, 1, MatchResultInput{Status: models.MatchStatusCompleted})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordResultRejectsNonOrganizer(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{
		ID: 1, EventID: 10,
		Athlete1ID: intPtr(100), Athlete2ID: intPtr(200),
		Status: models.MatchStatusPending,
	})

	_, err := svc.RecordResult(context.Background(), 1, 7, MatchResultInput{
		Status: models.MatchStatusInProgress,
	})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestRecordResultCompletedIsTerminal(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{
		ID: 1, EventID: 10,
		Athlete1ID: intPtr(100), Athlete2ID: intPtr(200),
		Status: models.MatchStatusCompleted, WinnerID: intPtr(100),
	})

	_, err := svc.RecordResult(context.Background(), 1, 1, MatchResultInput{
		Status: models.MatchStatusCompleted, WinnerID: intPtr(200),
	})
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestRecordResultRejectsInvalidTransition(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{
		ID: 1, EventID: 10,
		Athlete1ID: intPtr(100), Athlete2ID: intPtr(200),
		Status: models.MatchStatusPending,
	})

	// pending -> pending is not a move.
	_, err := svc.RecordResult(context.Background(), 1, 1, MatchResultInput{
		Status: models.MatchStatusPending,
	})
	assert.ErrorIs(t, err, ErrMatchInvalidTransition)
}

func TestRecordResultRejectsIncompleteSlots(t *testing.T) {
	// Slot 2 still waits for the winner of an earlier match.
	svc, _ := matchServiceFixture(&models.Match{
		ID: 1, EventID: 10,
		Athlete1ID: intPtr(100),
		Status:     models.MatchStatusPending,
	})

	_, err := svc.RecordResult(context.Background(), 1, 1, MatchResultInput{
		Status: models.MatchStatusInProgress,
	})
	assert.ErrorIs(t, err, ErrMatchSlotsIncomplete)
}

func TestRecordResultCompletionRequiresWinner(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{
		ID: 1, EventID: 10,
		Athlete1ID: intPtr(100), Athlete2ID: intPtr(200),
		Status: models.MatchStatusInProgress,
	})

	_, err := svc.RecordResult(context.Background(), 1, 1, MatchResultInput{
		Status: models.MatchStatusCompleted, Score1: 6, Score2: 4,
	})
	assert.ErrorIs(t, err, ErrMatchWinnerRequired)
}

func TestRecordResultWinnerMustBeInMatch(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{
		ID: 1, EventID: 10,
		Athlete1ID: intPtr(100), Athlete2ID: intPtr(200),
		Status: models.MatchStatusInProgress,
	})

	_, err := svc.RecordResult(context.Background(), 1, 1, MatchResultInput{
		Status: models.MatchStatusCompleted, Score1: 6, Score2: 4, WinnerID: intPtr(300),
	})
	assert.ErrorIs(t, err, ErrMatchWinnerNotInMatch)
}

func TestMatchStatusTransitionTable(t *testing.T) {
	assert.True(t, isValidMatchStatusTransition(models.MatchStatusPending, models.MatchStatusInProgress))
	assert.True(t, isValidMatchStatusTransition(models.MatchStatusPending, models.MatchStatusCompleted))
	assert.True(t, isValidMatchStatusTransition(models.MatchStatusInProgress, models.MatchStatusInProgress))
	assert.True(t, isValidMatchStatusTransition(models.MatchStatusInProgress, models.MatchStatusCompleted))

	assert.False(t, isValidMatchStatusTransition(models.MatchStatusPending, models.MatchStatusPending))
	assert.False(t, isValidMatchStatusTransition(models.MatchStatusInProgress, models.MatchStatusPending))
	assert.False(t, isValidMatchStatusTransition(models.MatchStatusCompleted, models.MatchStatusInProgress))
	assert.False(t, isValidMatchStatusTransition(models.MatchStatusCompleted, models.MatchStatusCompleted))
}

func TestGetMatchByID(t *testing.T) {
	svc, _ := matchServiceFixture(&models.Match{ID: 1, EventID: 10, Round: 2, MatchNumber: 1})

	match, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, match.Round)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
