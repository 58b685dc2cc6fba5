package domain

import (
	"strings"

	"tripmate-backend/internal/apperrors"
)

// ValidatePublish gates DRAFT→PUBLISHED. Rules run in a fixed order and the
// first violated rule wins, so callers always see a deterministic code.
func ValidatePublish(t *Trip, itineraryCount int) error {
	if t.Status == TripStatusPublished {
		return apperrors.Conflict("ALREADY_PUBLISHED", "trip is already published")
	}
	if strings.TrimSpace(t.Title) == "" {
		return apperrors.Validation("TITLE_REQUIRED", "title must not be blank")
	}
	if strings.TrimSpace(t.Description) == "" {
		return apperrors.Validation("DESCRIPTION_REQUIRED", "description must not be blank")
	}
	if strings.TrimSpace(t.Destination) == "" {
		return apperrors.Validation("DESTINATION_REQUIRED", "destination must not be blank")
	}
	if t.StartDate == nil {
		return apperrors.Validation("START_DATE_REQUIRED", "start date is required")
	}
	if t.EndDate == nil {
		return apperrors.Validation("END_DATE_REQUIRED", "end date is required")
	}
	if t.EndDate.Before(*t.StartDate) {
		return apperrors.Validation("END_DATE_BEFORE_START", "end date must not be before start date")
	}
	if t.EstimatedBudgetCents == nil || *t.EstimatedBudgetCents <= 0 {
		return apperrors.Validation("BUDGET_REQUIRED", "estimated budget must be greater than zero")
	}
	if t.MaxParticipants <= 0 {
		return apperrors.Validation("MAX_PARTICIPANTS_REQUIRED", "max participants must be greater than zero")
	}
	if t.JoinPolicy == "" {
		return apperrors.Validation("JOIN_POLICY_REQUIRED", "join policy is required")
	}
	if itineraryCount < 1 {
		return apperrors.Validation("ITINERARY_REQUIRED", "at least one itinerary entry is required")
	}
	return nil
}
