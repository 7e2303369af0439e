package domain

import "time"

// Role enumerates profile roles within a hotel.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleStaff      Role = "staff"
)

// CanProvision reports whether the role may create staff accounts.
func (r Role) CanProvision() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Profile models an application profile row scoped to a hotel tenant.
// HotelID is nil for tenant-less accounts.
type Profile struct {
	ID        string
	Email     string
	Role      Role
	FullName  *string
	HotelID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
