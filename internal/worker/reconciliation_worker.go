package worker

import (
	"github.com/spec-kit/hotel-staff-service/internal/service"
)

// StartReconciliationWorker registers orphan-tracking handlers.
func StartReconciliationWorker(reconciliationService *service.ReconciliationService) {
	if reconciliationService == nil {
		return
	}
	reconciliationService.RegisterHandlers()
}
