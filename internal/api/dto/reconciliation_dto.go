package dto

import "time"

// OrphanCompleteRequest identifies the admin triggering a manual
// reconciliation.
type OrphanCompleteRequest struct {
	AdminEmail string `json:"admin_email"`
}

// OrphanResponse describes a recorded orphaned identity.
type OrphanResponse struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	FullName   *string   `json:"full_name,omitempty"`
	HotelID    *string   `json:"hotel_id"`
	Cause      string    `json:"cause"`
	RecordedAt time.Time `json:"recorded_at"`
}
