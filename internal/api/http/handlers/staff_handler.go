package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotel-staff-service/internal/api/dto"
	"github.com/spec-kit/hotel-staff-service/internal/service"
)

// StaffHandler exposes the staff-provisioning endpoint.
type StaffHandler struct {
	provisioning *service.ProvisioningService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(provisioning *service.ProvisioningService) *StaffHandler {
	return &StaffHandler{provisioning: provisioning}
}

// CreateStaff handles POST /create-staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.provisioning.CreateStaff(c.UserContext(), service.CreateStaffInput{
		AdminEmail: req.AdminEmail,
		Email:      req.Email,
		Role:       req.Role,
		FullName:   req.FullName,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.StaffCreateResponse{
		Success: true,
		UserID:  result.UserID,
		HotelID: result.HotelID,
	})
}
