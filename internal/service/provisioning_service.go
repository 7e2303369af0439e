package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hotel-staff-service/internal/domain"
	"github.com/spec-kit/hotel-staff-service/internal/events"
	"github.com/spec-kit/hotel-staff-service/internal/identity"
	"github.com/spec-kit/hotel-staff-service/internal/observability"
	"github.com/spec-kit/hotel-staff-service/internal/repository"
	apperrors "github.com/spec-kit/hotel-staff-service/pkg/util/errorutil"
)

// ProvisioningService runs the staff-creation pipeline:
// validate, authorize, create identity, persist profile.
type ProvisioningService struct {
	profiles   repository.ProfileRepository
	identity   identity.Provider
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// ProvisioningDependencies encapsulates collaborator requirements.
type ProvisioningDependencies struct {
	ProfileRepo repository.ProfileRepository
	Identity    identity.Provider
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewProvisioningService builds the service.
func NewProvisioningService(deps ProvisioningDependencies) *ProvisioningService {
	return &ProvisioningService{
		profiles:   deps.ProfileRepo,
		identity:   deps.Identity,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// CreateStaffInput is the request payload for provisioning. There is
// deliberately no hotel field: the tenant always comes from the admin's
// own profile.
type CreateStaffInput struct {
	AdminEmail string
	Email      string
	Role       string
	FullName   string
}

// CreateStaffResult reports a provisioned account.
type CreateStaffResult struct {
	UserID  string
	HotelID *string
}

// authorizeAdmin loads the profile for email and checks it may provision
// staff. An unknown email maps to the same forbidden error as an
// under-privileged one, so the endpoint cannot be used to probe which
// emails exist.
func authorizeAdmin(ctx context.Context, profiles repository.ProfileRepository, email string) (*domain.Profile, error) {
	admin, err := profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewForbidden("not allowed")
		}
		return nil, apperrors.NewAuthLookupFailure(err)
	}
	if !admin.Role.CanProvision() {
		return nil, apperrors.NewForbidden("admin privileges required")
	}
	return admin, nil
}

// CreateStaff runs the pipeline. No step proceeds past a failure, and
// nothing already committed at a collaborator is undone: when the
// profile insert fails the created identity is surfaced, not deleted.
func (s *ProvisioningService) CreateStaff(ctx context.Context, input CreateStaffInput) (*CreateStaffResult, error) {
	missing := missingFields(input)
	if len(missing) > 0 {
		s.metrics.RecordProvisionOutcome("validation_failed")
		return nil, apperrors.NewValidationError("missing required fields", "required: "+strings.Join(missing, ", "))
	}

	admin, err := authorizeAdmin(ctx, s.profiles, input.AdminEmail)
	if err != nil {
		s.metrics.RecordProvisionOutcome("unauthorized")
		return nil, err
	}

	created, err := s.identity.CreateUser(ctx, input.Email)
	if err != nil {
		s.metrics.RecordProvisionOutcome("identity_rejected")
		var providerErr *identity.ProviderError
		if errors.As(err, &providerErr) {
			return nil, apperrors.NewIdentityRejected(providerErr.Message)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if created == nil || created.ID == "" {
		s.metrics.RecordProvisionOutcome("invariant_violation")
		return nil, apperrors.NewInvariantViolation("identity provider returned no user id")
	}

	fullName := optionalString(input.FullName)
	profile := &domain.Profile{
		ID:       created.ID,
		Email:    input.Email,
		Role:     domain.Role(input.Role),
		FullName: fullName,
		HotelID:  admin.HotelID,
	}
	if err := s.profiles.InsertStaff(ctx, profile); err != nil {
		s.metrics.RecordProvisionOutcome("persist_failed")
		s.logger.Error("profile insert failed after identity creation",
			zap.String("auth_user_id", created.ID),
			zap.String("email", input.Email),
			zap.Error(err))
		s.publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventIdentityOrphaned,
			AdminEmail: input.AdminEmail,
			Timestamp:  time.Now().UTC(),
			Payload: events.IdentityOrphanedPayload{
				UserID:   created.ID,
				Email:    input.Email,
				Role:     domain.Role(input.Role),
				FullName: fullName,
				HotelID:  admin.HotelID,
				Cause:    err.Error(),
			},
		})
		return nil, apperrors.NewPersistenceFailure(err, created.ID)
	}

	s.metrics.RecordProvisionOutcome("success")
	s.publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventStaffProvisioned,
		AdminEmail: input.AdminEmail,
		Timestamp:  time.Now().UTC(),
		Payload: events.StaffProvisionedPayload{
			UserID:  created.ID,
			Email:   input.Email,
			Role:    domain.Role(input.Role),
			HotelID: admin.HotelID,
		},
	})

	return &CreateStaffResult{UserID: created.ID, HotelID: admin.HotelID}, nil
}

func (s *ProvisioningService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func missingFields(input CreateStaffInput) []string {
	var missing []string
	if input.AdminEmail == "" {
		missing = append(missing, "admin_email")
	}
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if input.Role == "" {
		missing = append(missing, "role")
	}
	return missing
}

func optionalString(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
