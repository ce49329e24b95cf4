package app

import (
	"context"

	"carelink/internal/domain"
)

// ProfileService reads and updates user profiles. Threshold overrides are
// managed by ThresholdService; this service covers the descriptive fields.
type ProfileService struct {
	profiles domain.ProfileRepository
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles domain.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the profile for a user id.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	return s.profiles.GetProfile(ctx, userID)
}

// Update applies a partial profile change, creating the profile when
// missing.
func (s *ProfileService) Update(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	if upd.UserType != nil {
		switch *upd.UserType {
		case "caregiver", "parent":
		default:
			return nil, invalidf("user_type %q unknown: want caregiver|parent", *upd.UserType)
		}
	}
	return s.profiles.UpdateProfile(ctx, userID, upd)
}
