package events

import (
	"time"

	"github.com/spec-kit/hotel-staff-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffProvisioned EventType = "staff_provisioned"
	EventIdentityOrphaned EventType = "identity_orphaned"
	EventOrphanReconciled EventType = "orphan_reconciled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	AdminEmail string      `json:"admin_email"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// StaffProvisionedPayload payload.
type StaffProvisionedPayload struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	HotelID *string     `json:"hotel_id"`
}

// IdentityOrphanedPayload describes an identity whose profile write failed.
type IdentityOrphanedPayload struct {
	UserID   string      `json:"user_id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	FullName *string     `json:"full_name,omitempty"`
	HotelID  *string     `json:"hotel_id"`
	Cause    string      `json:"cause"`
}

// OrphanReconciledPayload payload.
type OrphanReconciledPayload struct {
	UserID string `json:"user_id"`
}
