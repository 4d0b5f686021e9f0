package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrEventNameRequired       = errors.New("event name is required")
	ErrEventDatesRequired      = errors.New("event registration, start and end dates are required")
	ErrEventInvalidRegDate     = errors.New("event registration deadline must be before the start date")
	ErrEventInvalidDateRange   = errors.New("event end date must be after start date")
	ErrEventInvalidStatus      = errors.New("invalid event status provided")
	ErrEventStatusTransition   = errors.New("invalid event status transition")
	ErrRegistrationNotOpen     = errors.New("event registration is not open")
	ErrCategoryFull            = errors.New("category quota is full")
	ErrCategoryLabelRequired   = errors.New("special categories require a label")
	ErrCategoryMixedFlags      = errors.New("mixed categories cannot carry individual or team flags")
	ErrMatchAlreadyCompleted   = errors.New("match is already completed")
	ErrMatchInvalidTransition  = errors.New("invalid match status transition")
	ErrMatchWinnerNotInMatch   = errors.New("winner must be one of the two match athletes")
	ErrMatchWinnerRequired     = errors.New("completing a match requires a winner")
	ErrMatchSlotsIncomplete    = errors.New("match cannot start before both athletes are known")
	ErrBracketNoParticipants   = errors.New("no confirmed participants to generate a bracket for this category")
	ErrBracketNotEnoughEntries = errors.New("not enough confirmed participants to generate a bracket (minimum 2)")

	// Category draft composition
	ErrDraftEmpty            = errors.New("category draft is empty")
	ErrDraftEditInProgress   = errors.New("another draft category is already being edited")
	ErrDraftNoEditInProgress = errors.New("no draft category edit in progress")
	ErrDraftEntryNotFound    = errors.New("draft category not found")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrClubNameConflict     = errors.New("club name is already in use")
	ErrEventNameConflict    = errors.New("event name already exists")
	ErrRegistrationConflict = errors.New("athlete is already registered for this category")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrUserNotFound         = errors.New("user not found")
	ErrClubNotFound         = errors.New("club not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrCategoryNotFound     = errors.New("competition category not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrCertificateNotFound  = errors.New("certificate not found")
)
