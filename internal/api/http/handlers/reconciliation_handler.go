package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotel-staff-service/internal/api/dto"
	"github.com/spec-kit/hotel-staff-service/internal/domain"
	"github.com/spec-kit/hotel-staff-service/internal/service"
)

// ReconciliationHandler exposes operator endpoints for orphaned
// identities.
type ReconciliationHandler struct {
	reconciliation *service.ReconciliationService
}

// NewReconciliationHandler constructs handler.
func NewReconciliationHandler(reconciliation *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliation: reconciliation}
}

// ListOrphans handles GET /reconciliation/orphans.
func (h *ReconciliationHandler) ListOrphans(c *fiber.Ctx) error {
	orphans, err := h.reconciliation.ListOrphans(c.UserContext(), c.Query("admin_email"))
	if err != nil {
		return err
	}
	resp := make([]dto.OrphanResponse, 0, len(orphans))
	for i := range orphans {
		resp = append(resp, orphanResponse(&orphans[i]))
	}
	return c.JSON(fiber.Map{"orphans": resp})
}

// CompleteOrphan handles POST /reconciliation/orphans/:id/complete.
func (h *ReconciliationHandler) CompleteOrphan(c *fiber.Ctx) error {
	var req dto.OrphanCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	orphan, err := h.reconciliation.CompleteOrphan(c.UserContext(), req.AdminEmail, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"user_id":  orphan.UserID,
		"hotel_id": orphan.HotelID,
	})
}

func orphanResponse(orphan *domain.OrphanedIdentity) dto.OrphanResponse {
	return dto.OrphanResponse{
		UserID:     orphan.UserID,
		Email:      orphan.Email,
		Role:       string(orphan.Role),
		FullName:   orphan.FullName,
		HotelID:    orphan.HotelID,
		Cause:      orphan.Cause,
		RecordedAt: orphan.RecordedAt,
	}
}
