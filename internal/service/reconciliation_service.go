package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hotel-staff-service/internal/domain"
	"github.com/spec-kit/hotel-staff-service/internal/events"
	"github.com/spec-kit/hotel-staff-service/internal/observability"
	"github.com/spec-kit/hotel-staff-service/internal/repository"
	apperrors "github.com/spec-kit/hotel-staff-service/pkg/util/errorutil"
)

// ReconciliationService tracks orphaned identities and lets operators
// complete the missing profile write later. Compensation is always
// operator-triggered; nothing here retries automatically.
type ReconciliationService struct {
	profiles   repository.ProfileRepository
	orphans    repository.OrphanRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// ReconciliationDependencies encapsulates collaborator requirements.
type ReconciliationDependencies struct {
	ProfileRepo repository.ProfileRepository
	OrphanRepo  repository.OrphanRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewReconciliationService builds the service.
func NewReconciliationService(deps ReconciliationDependencies) *ReconciliationService {
	return &ReconciliationService{
		profiles:   deps.ProfileRepo,
		orphans:    deps.OrphanRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// RegisterHandlers subscribes to events.
func (s *ReconciliationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventIdentityOrphaned, s.handleIdentityOrphaned)
}

func (s *ReconciliationService) handleIdentityOrphaned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IdentityOrphanedPayload)
	if !ok {
		s.logger.Warn("identity_orphaned event with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	orphan := &domain.OrphanedIdentity{
		UserID:     payload.UserID,
		Email:      payload.Email,
		Role:       payload.Role,
		FullName:   payload.FullName,
		HotelID:    payload.HotelID,
		Cause:      payload.Cause,
		RecordedAt: event.Timestamp,
	}
	if err := s.orphans.Record(ctx, orphan); err != nil {
		// The orphan id already went back to the caller in the error
		// response; losing the record only degrades the operator view.
		s.logger.Error("failed to record orphaned identity",
			zap.String("auth_user_id", payload.UserID),
			zap.Error(err))
		return err
	}
	s.metrics.IncOrphansRecorded()
	s.logger.Warn("orphaned identity recorded",
		zap.String("auth_user_id", payload.UserID),
		zap.String("email", payload.Email))
	return nil
}

// ListOrphans returns recorded orphans for an authorized admin.
func (s *ReconciliationService) ListOrphans(ctx context.Context, adminEmail string) ([]domain.OrphanedIdentity, error) {
	if adminEmail == "" {
		return nil, apperrors.NewValidationError("missing required fields", "required: admin_email")
	}
	if _, err := authorizeAdmin(ctx, s.profiles, adminEmail); err != nil {
		return nil, err
	}
	orphans, err := s.orphans.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return orphans, nil
}

// CompleteOrphan idempotently performs the profile write that failed when
// the orphan was recorded, then clears the record.
func (s *ReconciliationService) CompleteOrphan(ctx context.Context, adminEmail, userID string) (*domain.OrphanedIdentity, error) {
	if adminEmail == "" || userID == "" {
		return nil, apperrors.NewValidationError("missing required fields", "required: admin_email, user_id")
	}
	if _, err := authorizeAdmin(ctx, s.profiles, adminEmail); err != nil {
		return nil, err
	}

	orphan, err := s.orphans.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NewValidationError("unknown orphaned identity", "no record for id "+userID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	profile := &domain.Profile{
		ID:       orphan.UserID,
		Email:    orphan.Email,
		Role:     orphan.Role,
		FullName: orphan.FullName,
		HotelID:  orphan.HotelID,
	}
	if err := s.profiles.InsertStaff(ctx, profile); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.orphans.Remove(ctx, userID); err != nil {
		s.logger.Error("orphan completed but record not cleared",
			zap.String("auth_user_id", userID),
			zap.Error(err))
	} else {
		s.metrics.DecOrphansRecorded()
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventOrphanReconciled,
			AdminEmail: adminEmail,
			Timestamp:  time.Now().UTC(),
			Payload:    events.OrphanReconciledPayload{UserID: userID},
		})
	}

	return orphan, nil
}
