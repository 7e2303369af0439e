package dto

// StaffCreateRequest is the POST /create-staff payload. Any hotel or
// tenant field in the body is ignored: the tenant is always taken from
// the inviting admin's profile.
type StaffCreateRequest struct {
	AdminEmail string `json:"admin_email"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	FullName   string `json:"full_name"`
}

// StaffCreateResponse reports a provisioned account. HotelID is null
// for tenant-less admins.
type StaffCreateResponse struct {
	Success bool    `json:"success"`
	UserID  string  `json:"user_id"`
	HotelID *string `json:"hotel_id"`
}
