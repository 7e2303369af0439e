package domain

import "time"

// OrphanedIdentity records an identity-provider account that was created
// without its corresponding profile row. The record carries everything
// needed to complete the missing write later.
type OrphanedIdentity struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	FullName   *string   `json:"full_name,omitempty"`
	HotelID    *string   `json:"hotel_id"`
	Cause      string    `json:"cause"`
	RecordedAt time.Time `json:"recorded_at"`
}
