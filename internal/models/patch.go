package models

import "time"

// ProfilePatch carries a partial profile update. Only non-nil fields are
// applied; absent fields leave the stored values untouched.
type ProfilePatch struct {
	Name        *string    `json:"name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     *string    `json:"address,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p *ProfilePatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Gender == nil &&
		p.DateOfBirth == nil && p.Address == nil
}

// PreferencesPatch carries a partial preferences update with the same
// only-present-fields semantics as ProfilePatch.
type PreferencesPatch struct {
	GenderPreference *string `json:"gender_preference,omitempty"`
	BiometricEnabled *bool   `json:"biometric_enabled,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p *PreferencesPatch) Empty() bool {
	return p.GenderPreference == nil && p.BiometricEnabled == nil
}

// Preferences is the read shape returned by the preferences endpoint.
type Preferences struct {
	GenderPreference *string `json:"gender_preference"`
	BiometricEnabled bool    `json:"biometric_enabled"`
}

// UserStats are the derived per-user aggregates.
type UserStats struct {
	RidesAsRider  int     `json:"rides_as_rider"`
	RidesAsDriver int     `json:"rides_as_driver"`
	TotalSpent    float64 `json:"total_spent"`
	TotalEarned   float64 `json:"total_earned"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// Pagination is the shared list-response envelope.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPagination computes the has-more flag from offset+limit vs total.
func NewPagination(total, limit, offset int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: total > offset+limit,
	}
}
