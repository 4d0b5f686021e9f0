package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/archery-federation/models"
)

func registrationFixture(eventStatus models.EventStatus, quota int, existing ...*models.Registration) (RegistrationService, *fakeRegistrationRepo) {
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer, Email: "org@example.com"}
	athlete := &models.User{ID: 7, Role: models.RoleAthlete, Email: "athlete@example.com"}
	event := &models.Event{ID: 10, Name: "Spring Cup", OrganizerID: 1, Status: eventStatus}
	category := &models.CompetitionCategory{
		ID: 20, EventID: 10,
		Division: models.DivisionRecurve, AgeClass: models.AgeClassSenior, Gender: models.GenderMale,
		Distance: "70m", Quota: quota,
	}

	regRepo := newFakeRegistrationRepo(existing...)
	svc := NewRegistrationService(
		regRepo,
		newFakeCategoryRepo(category),
		newFakeEventRepo(event),
		newFakeUserRepo(organizer, athlete),
		nil,
		nil,
		testLogger(),
	)
	return svc, regRepo
}

func TestRegisterCreatesPendingRegistration(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 0)

	reg, err := svc.Register(context.Background(), 10, 20, 7)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, reg.Status)
	assert.Equal(t, 10, reg.EventID)
	assert.Equal(t, 20, reg.CategoryID)
	assert.Equal(t, 7, reg.AthleteID)
	assert.NotZero(t, reg.ID)
}

func TestRegisterRequiresOpenRegistration(t *testing.T) {
	for _, status := range []models.EventStatus{
		models.EventStatusDraft,
		models.EventStatusOngoing,
		models.EventStatusCompleted,
		models.EventStatusCanceled,
	} {
		svc, _ := registrationFixture(status, 0)
		_, err := svc.Register(context.Background(), 10, 20, 7)
		assert.ErrorIs(t, err, ErrRegistrationNotOpen, "status %s", status)
	}
}

func TestRegisterEnforcesQuota(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 2,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 100, Status: models.RegistrationConfirmed},
		&models.Registration{ID: 2, EventID: 10, CategoryID: 20, AthleteID: 101, Status: models.RegistrationPending},
	)

	_, err := svc.Register(context.Background(), 10, 20, 7)
	assert.ErrorIs(t, err, ErrCategoryFull)
}

func TestRegisterDeclinedDoNotConsumeQuota(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 2,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 100, Status: models.RegistrationDeclined},
		&models.Registration{ID: 2, EventID: 10, CategoryID: 20, AthleteID: 101, Status: models.RegistrationDeclined},
	)

	reg, err := svc.Register(context.Background(), 10, 20, 7)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, reg.Status)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 0,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 7, Status: models.RegistrationPending},
	)

	_, err := svc.Register(context.Background(), 10, 20, 7)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegisterUnknownCategory(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 0)

	_, err := svc.Register(context.Background(), 10, 99, 7)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateStatusByOrganizer(t *testing.T) {
	svc, repo := registrationFixture(models.EventStatusRegistration, 0,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 7, Status: models.RegistrationPending},
	)

	reg, err := svc.UpdateStatus(context.Background(), 1, 1, models.RegistrationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, reg.Status)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, stored.Status)
}

func TestUpdateStatusRejectsNonOrganizer(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 0,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 7, Status: models.RegistrationPending},
	)

	_, err := svc.UpdateStatus(context.Background(), 1, 7, models.RegistrationConfirmed)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 0,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 7, Status: models.RegistrationPending},
	)

	_, err := svc.UpdateStatus(context.Background(), 1, 1, "waitlisted")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestWithdrawByAthlete(t *testing.T) {
	svc, repo := registrationFixture(models.EventStatusRegistration, 0,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 7, Status: models.RegistrationPending},
	)

	require.NoError(t, svc.Withdraw(context.Background(), 1, 7))

	_, err := repo.GetByID(context.Background(), 1)
	assert.Error(t, err)
}

func TestWithdrawByStrangerRejected(t *testing.T) {
	svc, _ := registrationFixture(models.EventStatusRegistration, 0,
		&models.Registration{ID: 1, EventID: 10, CategoryID: 20, AthleteID: 100, Status: models.RegistrationPending},
	)

	err := svc.Withdraw(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}
