package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/velmark/archery-federation/models"
	"github.com/velmark/archery-federation/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateEventDates(reg, start, end time.Time) error {
	if reg.IsZero() || start.IsZero() || end.IsZero() {
		return ErrEventDatesRequired
	}
	if reg.After(start) {
		return fmt.Errorf("%w: registration deadline (%s) is after start date (%s)",
			ErrEventInvalidRegDate, reg.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date (%s) must be before end date (%s)",
			ErrEventInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidEventStatusTransition(current, next models.EventStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.EventStatus][]models.EventStatus{
		models.EventStatusDraft:        {models.EventStatusRegistration, models.EventStatusCanceled},
		models.EventStatusRegistration: {models.EventStatusOngoing, models.EventStatusCanceled},
		models.EventStatusOngoing:      {models.EventStatusCompleted, models.EventStatusCanceled},
		models.EventStatusCompleted:    {},
		models.EventStatusCanceled:     {},
	}
	for _, candidate := range allowed[current] {
		if next == candidate {
			return true
		}
	}
	return false
}

// validateCategoryFlags enforces the gender rules: a MIXED category is the
// mixed-team event itself, a non-mixed category never carries EMix.
func validateCategoryFlags(cat *models.CompetitionCategory) error {
	if cat.IsMixed() {
		if cat.QInd || cat.EInd || cat.QTeam || cat.ETeam || cat.QMix || !cat.EMix {
			return ErrCategoryMixedFlags
		}
	} else if cat.EMix {
		return ErrCategoryMixedFlags
	}
	if cat.IsSpecial && strings.TrimSpace(cat.CategoryLabel) == "" {
		return ErrCategoryLabelRequired
	}
	return nil
}

func populateUserDetails(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = ""
	if user.AvatarKey != nil && *user.AvatarKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*user.AvatarKey); url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateClubLogoURL(club *models.Club, uploader storage.FileUploader) {
	if club != nil && club.LogoKey != nil && *club.LogoKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*club.LogoKey); url != "" {
			club.LogoURL = &url
		}
	}
}

func populateEventPosterURL(event *models.Event, uploader storage.FileUploader) {
	if event != nil && event.PosterKey != nil && *event.PosterKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*event.PosterKey); url != "" {
			event.PosterURL = &url
		}
	}
}

func athleteDisplayName(u *models.User) string {
	if u == nil {
		return "BYE"
	}
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name != "" {
		return name
	}
	return fmt.Sprintf("Athlete %d", u.ID)
}

// GetExtensionFromContentType maps an image content type to a file extension
// for upload keys.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "application/pdf":
		return ".pdf", nil
	default:
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}
