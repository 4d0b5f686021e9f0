package services

import (
	"context"
	"errors"
	"time"

	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/repositories"
)

// In-memory repository fakes backing the service tests.

var errDB = errors.New("database unavailable")

// fakeTransactor runs the unit of work directly, without a database.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = len(r.users) + 1
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListByClub(_ context.Context, clubID int) ([]*models.User, error) {
	out := make([]*models.User, 0)
	for _, user := range r.users {
		if user.ClubID != nil && *user.ClubID == clubID {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateAvatarKey(_ context.Context, id int, key *string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.AvatarKey = key
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeEventRepo struct {
	events map[int]*models.Event
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[int]*models.Event)}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	event.ID = len(r.events) + 1
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) List(_ context.Context, _ repositories.EventFilter) ([]*models.Event, error) {
	out := make([]*models.Event, 0, len(r.events))
	for _, event := range r.events {
		copied := *event
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) UpdateStatus(_ context.Context, id int, status models.EventStatus) error {
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (r *fakeEventRepo) UpdatePosterKey(_ context.Context, id int, key *string) error {
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.PosterKey = key
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) ListDueForStatusUpdate(_ context.Context, _ time.Time) ([]*models.Event, error) {
	return nil, nil
}

type fakeCategoryRepo struct {
	categories map[int]*models.CompetitionCategory
}

func newFakeCategoryRepo(cats ...*models.CompetitionCategory) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: make(map[int]*models.CompetitionCategory)}
	for _, c := range cats {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, _ repositories.SQLExecutor, cat *models.CompetitionCategory) error {
	cat.ID = len(r.categories) + 1
	r.categories[cat.ID] = cat
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int) (*models.CompetitionCategory, error) {
	cat, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	copied := *cat
	return &copied, nil
}

func (r *fakeCategoryRepo) ListByEvent(_ context.Context, eventID int) ([]*models.CompetitionCategory, error) {
	out := make([]*models.CompetitionCategory, 0)
	for _, cat := range r.categories {
		if cat.EventID == eventID {
			copied := *cat
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, cat *models.CompetitionCategory) error {
	if _, ok := r.categories[cat.ID]; !ok {
		return repositories.ErrCategoryNotFound
	}
	r.categories[cat.ID] = cat
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.categories[id]; !ok {
		return repositories.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type fakeRegistrationRepo struct {
	registrations map[int]*models.Registration
	nextID        int

	// athleteListErr fails ListByCategory calls that join athlete details.
	athleteListErr error
}

func newFakeRegistrationRepo(regs ...*models.Registration) *fakeRegistrationRepo {
	repo := &fakeRegistrationRepo{registrations: make(map[int]*models.Registration), nextID: 1}
	for _, reg := range regs {
		repo.registrations[reg.ID] = reg
		if reg.ID >= repo.nextID {
			repo.nextID = reg.ID + 1
		}
	}
	return repo
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	for _, existing := range r.registrations {
		if existing.CategoryID == reg.CategoryID && existing.AthleteID == reg.AthleteID {
			return repositories.ErrRegistrationConflict
		}
	}
	reg.ID = r.nextID
	r.nextID++
	r.registrations[reg.ID] = reg
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.Registration, error) {
	reg, ok := r.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) ListByCategory(_ context.Context, categoryID int, status *models.RegistrationStatus, withAthletes bool) ([]*models.Registration, error) {
	if withAthletes && r.athleteListErr != nil {
		return nil, r.athleteListErr
	}
	out := make([]*models.Registration, 0)
	for id := 1; id < r.nextID; id++ {
		reg, ok := r.registrations[id]
		if !ok || reg.CategoryID != categoryID {
			continue
		}
		if status != nil && reg.Status != *status {
			continue
		}
		copied := *reg
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRegistrationRepo) CountByCategory(ctx context.Context, categoryID int, statuses ...models.RegistrationStatus) (int, error) {
	regs, _ := r.ListByCategory(ctx, categoryID, nil, false)
	if len(statuses) == 0 {
		return len(regs), nil
	}
	count := 0
	for _, reg := range regs {
		for _, status := range statuses {
			if reg.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, id int, status models.RegistrationStatus) error {
	reg, ok := r.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.Status = status
	return nil
}

func (r *fakeRegistrationRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.registrations[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(r.registrations, id)
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, m := range matches {
		repo.matches[m.ID] = m
	}
	return repo
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(r.matches) + 1
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) ListByCategory(_ context.Context, eventID, categoryID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.EventID == eventID && match.CategoryID == categoryID {
			copied := *match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, score1, score2 int, status models.MatchStatus, winnerID *int) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Score1 = score1
	match.Score2 = score2
	match.Status = status
	match.WinnerID = winnerID
	return nil
}

func (r *fakeMatchRepo) UpdateNextMatchInfo(_ context.Context, _ repositories.SQLExecutor, id int, nextMatchID, winnerToSlot *int) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.NextMatchID = nextMatchID
	match.WinnerToSlot = winnerToSlot
	return nil
}

func (r *fakeMatchRepo) SetAthleteSlot(_ context.Context, _ repositories.SQLExecutor, id int, slot int, athleteID *int) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if slot == 1 {
		match.Athlete1ID = athleteID
	} else {
		match.Athlete2ID = athleteID
	}
	return nil
}

func (r *fakeMatchRepo) DeleteByCategory(_ context.Context, _ repositories.SQLExecutor, eventID, categoryID int) error {
	for id, match := range r.matches {
		if match.EventID == eventID && match.CategoryID == categoryID {
			delete(r.matches, id)
		}
	}
	return nil
}
